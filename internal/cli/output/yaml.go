package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/respkv/pkg/resp"
)

// YAMLFormatter formats replies as YAML.
type YAMLFormatter struct{}

// Format formats v as YAML.
func (f *YAMLFormatter) Format(w io.Writer, v resp.Value) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(envelope(v)); err != nil {
		return err
	}
	return enc.Close()
}
