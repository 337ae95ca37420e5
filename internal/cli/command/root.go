package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/config"
	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/cli/repl"
	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/tlsroots"
	"github.com/yndnr/respkv/pkg/resp"
)

// ErrErrorReply is returned after the server answered with an error reply.
// The reply has already been printed.
var ErrErrorReply = errors.New("server returned an error reply")

const metaCLIConfig = "cliConfig"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:                 "respkv-cli",
		Usage:                "command-line client for respkv-server",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			PingCommand(),
			EchoCommand(),
			GetCommand(),
			SetCommand(),
			RawCommand(),
			DecodeCommand(),
		},
		Metadata: map[string]any{},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			c.App.Metadata[metaCLIConfig] = cfg
			return nil
		},
		Action: runREPL,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI settings file (default ~/.respkv/cli.yaml)",
			EnvVars: []string{"RESPKV_CLI_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "server address host:port",
			EnvVars: []string{"RESPKV_SERVER"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: text, json, yaml, tree",
			EnvVars: []string{"RESPKV_OUTPUT"},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "dial and request timeout",
		},
		&cli.BoolFlag{
			Name:  "tls",
			Usage: "connect using TLS",
		},
		&cli.StringFlag{
			Name:  "tls-ca",
			Usage: "PEM file with CA certificates to trust",
		},
		&cli.StringFlag{
			Name:  "tls-server-name",
			Usage: "server name to verify",
		},
		&cli.BoolFlag{
			Name:  "tls-insecure",
			Usage: "skip server certificate verification",
		},
		&cli.StringFlag{
			Name:  "history-file",
			Usage: "REPL history file (default ~/.respkv/history)",
		},
	}
}

// Settings are the effective connection and output settings.
type Settings struct {
	Server      string
	Output      output.Format
	Timeout     time.Duration
	HistoryFile string
	TLS         config.TLSConfig
}

// ResolveSettings merges explicit flags over the CLI settings file.
func ResolveSettings(c *cli.Context) *Settings {
	cfg, ok := c.App.Metadata[metaCLIConfig].(*config.CLIConfig)
	if !ok {
		cfg = config.Default()
	}

	s := &Settings{
		Server:      cfg.Server,
		Output:      output.Format(cfg.Output),
		Timeout:     cfg.Timeout,
		HistoryFile: cfg.HistoryFile,
		TLS:         cfg.TLS,
	}

	if c.IsSet("server") {
		s.Server = c.String("server")
	}
	if c.IsSet("output") {
		s.Output = output.Format(c.String("output"))
	}
	if c.IsSet("timeout") {
		s.Timeout = c.Duration("timeout")
	}
	if c.IsSet("history-file") {
		s.HistoryFile = c.String("history-file")
	}
	if c.IsSet("tls") {
		s.TLS.Enabled = c.Bool("tls")
	}
	if c.IsSet("tls-ca") {
		s.TLS.CAFile = c.String("tls-ca")
		s.TLS.Enabled = true
	}
	if c.IsSet("tls-server-name") {
		s.TLS.ServerName = c.String("tls-server-name")
	}
	if c.IsSet("tls-insecure") {
		s.TLS.InsecureSkipVerify = c.Bool("tls-insecure")
	}
	if s.HistoryFile == "" {
		s.HistoryFile = repl.DefaultHistoryFile()
	}
	return s
}

// NewClient builds a RESP client from the resolved settings.
func NewClient(s *Settings) (*connection.Client, error) {
	opts := connection.Options{Addr: s.Server, Timeout: s.Timeout}
	if s.TLS.Enabled {
		tlsCfg, err := tlsroots.ClientConfig(tlsroots.ClientOptions{
			CAFile:             s.TLS.CAFile,
			ServerName:         s.TLS.ServerName,
			InsecureSkipVerify: s.TLS.InsecureSkipVerify,
		})
		if err != nil {
			return nil, fmt.Errorf("tls: %w", err)
		}
		opts.TLS = tlsCfg
	}
	return connection.NewClient(opts), nil
}

// execute sends args and prints the reply.
func execute(c *cli.Context, args ...string) error {
	s := ResolveSettings(c)
	formatter, err := output.NewFormatter(s.Output)
	if err != nil {
		return err
	}

	client, err := NewClient(s)
	if err != nil {
		return err
	}
	defer client.Close()

	v, err := client.Do(c.Context, args...)
	if err != nil {
		return err
	}
	return printReply(c.App.Writer, formatter, v)
}

func printReply(w io.Writer, f output.Formatter, v resp.Value) error {
	if err := f.Format(w, v); err != nil {
		return fmt.Errorf("format reply: %w", err)
	}
	if v.IsError() {
		return ErrErrorReply
	}
	return nil
}

// runREPL is the action when no subcommand is given.
func runREPL(c *cli.Context) error {
	if c.NArg() > 0 {
		return fmt.Errorf("unknown command %q", c.Args().First())
	}

	s := ResolveSettings(c)
	formatter, err := output.NewFormatter(s.Output)
	if err != nil {
		return err
	}

	client, err := NewClient(s)
	if err != nil {
		return err
	}
	defer client.Close()

	in := c.App.Reader
	if in == nil {
		in = os.Stdin
	}

	exec := func(ctx context.Context, args []string) error {
		v, err := client.Do(ctx, args...)
		if err != nil {
			return err
		}
		if err := printReply(c.App.Writer, formatter, v); err != nil && !errors.Is(err, ErrErrorReply) {
			return err
		}
		return nil
	}

	r := repl.New(exec, in, c.App.Writer,
		repl.WithPrompt(s.Server+"> "),
		repl.WithHistory(repl.NewHistory(s.HistoryFile, repl.DefaultHistorySize)),
	)
	return r.Run(c.Context)
}
