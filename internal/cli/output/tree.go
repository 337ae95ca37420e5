package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/respkv/pkg/resp"
)

// TreeFormatter prints one line per frame, tagged with its RESP type.
type TreeFormatter struct{}

// Format writes the value tree of v.
func (f *TreeFormatter) Format(w io.Writer, v resp.Value) error {
	var b strings.Builder
	writeTree(&b, v, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTree(b *strings.Builder, v resp.Value, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(v.Type.String())

	switch {
	case v.IsNull():
		b.WriteString(" null")
	case v.Type == resp.TypeArray:
		fmt.Fprintf(b, "(%d)\n", len(v.Array))
		for _, elem := range v.Array {
			writeTree(b, elem, depth+1)
		}
		return
	case v.Type == resp.TypeInteger:
		fmt.Fprintf(b, " %d", v.Int)
	case v.Type == resp.TypeDouble:
		b.WriteString(" " + strconv.FormatFloat(v.Float, 'g', -1, 64))
	case v.Type == resp.TypeBoolean:
		fmt.Fprintf(b, " %t", v.Bool)
	case v.Type == resp.TypeVerbatimString:
		fmt.Fprintf(b, " %s:%s", v.Format, strconv.Quote(v.Str))
	default:
		b.WriteString(" " + strconv.Quote(v.Str))
	}
	b.WriteByte('\n')
}
