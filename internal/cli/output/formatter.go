package output

import (
	"fmt"
	"io"

	"github.com/yndnr/respkv/pkg/resp"
)

// Format represents the output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTree Format = "tree"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatTree}

// Formatter writes a reply to w.
type Formatter interface {
	Format(w io.Writer, v resp.Value) error
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatText, "":
		return &TextFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatTree:
		return &TreeFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %v)", format, Formats)
	}
}
