package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/respkv/pkg/resp"
)

// TextFormatter renders replies the way redis-cli does.
type TextFormatter struct{}

// Format writes v followed by a newline.
func (f *TextFormatter) Format(w io.Writer, v resp.Value) error {
	var b strings.Builder
	writeText(&b, v, 0)
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func writeText(b *strings.Builder, v resp.Value, indent int) {
	if v.IsNull() {
		b.WriteString("(nil)")
		return
	}

	switch v.Type {
	case resp.TypeSimpleString:
		b.WriteString(v.Str)
	case resp.TypeSimpleError, resp.TypeBulkError:
		b.WriteString("(error) ")
		b.WriteString(v.Str)
	case resp.TypeInteger:
		fmt.Fprintf(b, "(integer) %d", v.Int)
	case resp.TypeBulkString:
		b.WriteString(strconv.Quote(v.Str))
	case resp.TypeVerbatimString:
		b.WriteString(v.Str)
	case resp.TypeBoolean:
		fmt.Fprintf(b, "(%t)", v.Bool)
	case resp.TypeDouble:
		fmt.Fprintf(b, "(double) %s", strconv.FormatFloat(v.Float, 'g', -1, 64))
	case resp.TypeBigNumber:
		fmt.Fprintf(b, "(big number) %s", v.Str)
	case resp.TypeArray:
		writeArray(b, v.Array, indent)
	default:
		fmt.Fprintf(b, "(%s)", v.Type)
	}
}

func writeArray(b *strings.Builder, elems []resp.Value, indent int) {
	if len(elems) == 0 {
		b.WriteString("(empty array)")
		return
	}

	width := len(strconv.Itoa(len(elems)))
	for i, elem := range elems {
		if i > 0 {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(" ", indent))
		}
		label := fmt.Sprintf("%*d) ", width, i+1)
		b.WriteString(label)
		writeText(b, elem, indent+len(label))
	}
}
