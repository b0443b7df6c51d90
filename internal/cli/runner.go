// Package cli wires the tada command tree: the server, the interactive UI and
// one-shot commands over the same client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// exitErr carries an exit code. A nil err means the message was already
// printed.
type exitErr struct {
	code int
	err  error
}

func (e *exitErr) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitErr) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &exitErr{code: exitUsage, err: fmt.Errorf(format, args...)}
}

// withUsage turns argument validation failures into usage errors.
func withUsage(args cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := args(cmd, a); err != nil {
			return &exitErr{code: exitUsage, err: fmt.Errorf("%w\nusage: %s", err, cmd.UseLine())}
		}
		return nil
	}
}

// env is the state shared by every subcommand of one invocation.
type env struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *log.Logger

	in          io.Reader
	out, errOut io.Writer
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	e := &env{v: config.New(), in: in, out: out, errOut: errOut, logger: logging.Discard()}
	root := newRootCmd(e)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ee *exitErr
	code := exitError
	if errors.As(err, &ee) {
		code = ee.code
		if ee.err == nil {
			return code
		}
	} else if strings.HasPrefix(err.Error(), "unknown command") || strings.HasPrefix(err.Error(), "unknown flag") {
		code = exitUsage
	}
	ui.Fail(errOut, err.Error())
	if code == exitUsage {
		fmt.Fprintln(errOut)
		fmt.Fprintln(errOut, ui.Current().Muted.Render("Run `tada --help` for usage."))
	}
	return code
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "tada",
		Short: "tada - a tiny todo list",
		Long: `tada keeps a todo list on a small RPC server and lets you work with it
from an interactive terminal UI or one-shot commands.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Help()
			return &exitErr{code: exitUsage}
		},
		Example: `  tada serve
  tada add "Buy milk"
  tada ls --tab pending
  tada done 2
  tada rm 3
  tada ui`,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &exitErr{code: exitUsage, err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&e.cfgFile, "config", "", "config file (default: ~/.tada/config.yaml)")
	pf.String("server", "", "server URL (default: http://localhost:3000)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("theme", "", "color theme: classic, neon, mono")
	e.v.BindPFlag(config.KeyClientURL, pf.Lookup("server"))
	e.v.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	e.v.BindPFlag(config.KeyUITheme, pf.Lookup("theme"))

	root.AddCommand(
		newServeCmd(e),
		newUICmd(e),
		newListCmd(e),
		newAddCmd(e),
		newDoneCmd(e),
		newRemoveCmd(e),
		newAuthCmd(e),
		newConfigCmd(e),
		newVersionCmd(e),
	)
	return root
}

// skipConfigFile marks commands that must run without reading a config file.
const skipConfigFile = "skip-config-file"

// load reads config once flags are parsed.
func (e *env) load(cmd *cobra.Command) error {
	if cmd.Annotations[skipConfigFile] == "" {
		if err := config.Load(e.v, e.cfgFile); err != nil {
			return err
		}
	}
	e.cfg = config.From(e.v)
	ui.SetTheme(e.cfg.UI.Theme)
	e.logger = logging.New(e.errOut, logging.Options{
		Level:           e.cfg.Log.Level,
		Prefix:          "tada",
		ReportTimestamp: true,
	})
	e.logger.Debug("config loaded", "file", e.v.ConfigFileUsed(), "server", e.cfg.Client.URL)
	return nil
}

// client builds an API client from config and the stored token.
func (e *env) client() (*api.Client, error) {
	token, err := auth.Token()
	if err != nil {
		return nil, err
	}
	return api.NewClient(e.cfg.Client.URL,
		api.WithTimeout(e.cfg.Client.Timeout),
		api.WithToken(token),
	), nil
}

func newVersionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version",
		Args:        withUsage(cobra.NoArgs),
		Annotations: map[string]string{skipConfigFile: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(e.out, "tada %s\n", Version)
		},
	}
}
