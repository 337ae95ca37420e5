package output

import (
	"encoding/json"
	"io"

	"github.com/yndnr/respkv/pkg/resp"
)

// JSONFormatter formats replies as JSON.
type JSONFormatter struct{}

// Format formats v as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, v resp.Value) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(envelope(v))
}

// envelope wraps error replies so they can be told apart from strings.
func envelope(v resp.Value) any {
	if v.IsError() {
		return map[string]string{"error": v.Str}
	}
	return v.Native()
}
