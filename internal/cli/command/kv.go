package command

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
)

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:      "ping",
		Usage:     "Check that the server answers",
		ArgsUsage: "[message]",
		Action: func(c *cli.Context) error {
			if c.NArg() > 1 {
				return usageError(c, "ping takes at most one argument")
			}
			return execute(c, append([]string{"PING"}, c.Args().Slice()...)...)
		},
	}
}

// EchoCommand returns the echo command.
func EchoCommand() *cli.Command {
	return &cli.Command{
		Name:      "echo",
		Usage:     "Ask the server to echo the arguments",
		ArgsUsage: "<message>...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return usageError(c, "echo requires a message")
			}
			return execute(c, append([]string{"ECHO"}, c.Args().Slice()...)...)
		},
	}
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get the value of a key",
		ArgsUsage: "<key>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return usageError(c, "get requires exactly one key")
			}
			return execute(c, "GET", c.Args().First())
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set the value of a key",
		ArgsUsage: "<key> <value>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "nx", Usage: "only set if the key does not exist"},
			&cli.BoolFlag{Name: "xx", Usage: "only set if the key exists"},
			&cli.Int64Flag{Name: "ex", Usage: "expire after `SECONDS`"},
			&cli.Int64Flag{Name: "px", Usage: "expire after `MILLISECONDS`"},
			&cli.BoolFlag{Name: "get", Usage: "return the previous value"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return usageError(c, "set requires a key and a value")
			}
			return execute(c, setArgs(c)...)
		},
	}
}

// setArgs builds the SET command line. Option validation is left to the
// server so the CLI reports exactly what the server does.
func setArgs(c *cli.Context) []string {
	args := []string{"SET", c.Args().Get(0), c.Args().Get(1)}
	if c.Bool("nx") {
		args = append(args, "NX")
	}
	if c.Bool("xx") {
		args = append(args, "XX")
	}
	if c.IsSet("ex") {
		args = append(args, "EX", strconv.FormatInt(c.Int64("ex"), 10))
	}
	if c.IsSet("px") {
		args = append(args, "PX", strconv.FormatInt(c.Int64("px"), 10))
	}
	if c.Bool("get") {
		args = append(args, "GET")
	}
	return args
}

// RawCommand returns the raw command.
func RawCommand() *cli.Command {
	return &cli.Command{
		Name:      "raw",
		Usage:     "Send any command as an array of bulk strings",
		ArgsUsage: "<command> [args...]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return usageError(c, "raw requires a command")
			}
			return execute(c, c.Args().Slice()...)
		},
	}
}

func usageError(c *cli.Context, msg string) error {
	return fmt.Errorf("%s\nusage: %s %s %s", msg, c.App.Name, c.Command.Name, c.Command.ArgsUsage)
}
