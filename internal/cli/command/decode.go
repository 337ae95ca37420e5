package command

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/pkg/resp"
)

// DecodeCommand returns the decode command.
func DecodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "decode",
		Usage: "Decode a RESP frame offline and print its value tree",
		Description: `The frame is given with Go string escapes, for example
   respkv-cli decode '*2\r\n$3\r\nGET\r\n$1\r\nk\r\n'
With no argument the raw frame is read from stdin.`,
		ArgsUsage: "[frame]",
		Action:    decodeAction,
	}
}

func decodeAction(c *cli.Context) error {
	var input []byte
	switch c.NArg() {
	case 0:
		in := c.App.Reader
		if in == nil {
			in = os.Stdin
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		input = data
	case 1:
		s, err := UnescapeFrame(c.Args().First())
		if err != nil {
			return err
		}
		input = []byte(s)
	default:
		return usageError(c, "decode takes at most one frame")
	}

	format := output.FormatTree
	if c.IsSet("output") {
		format = output.Format(c.String("output"))
	}
	formatter, err := output.NewFormatter(format)
	if err != nil {
		return err
	}

	res := resp.Decode(input, 0)
	if !res.Success() {
		return fmt.Errorf("decode: %s", res.Message())
	}

	if err := formatter.Format(c.App.Writer, res.Value); err != nil {
		return err
	}
	if rest := len(input) - res.Next; rest > 0 {
		fmt.Fprintf(c.App.ErrWriter, "note: %d trailing byte(s) after offset %d ignored\n", rest, res.Next)
	}
	return nil
}

// UnescapeFrame interprets Go string escapes such as \r\n and \x00.
func UnescapeFrame(s string) (string, error) {
	quoted := `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	out, err := strconv.Unquote(quoted)
	if err != nil {
		return "", fmt.Errorf("invalid escape in frame %q: %w", s, err)
	}
	return out, nil
}
