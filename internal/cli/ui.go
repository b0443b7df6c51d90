package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/tui"
)

func newUICmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ui",
		Aliases: []string{"tui"},
		Short:   "Open the interactive todo list",
		Args:    withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := e.client()
			if err != nil {
				return err
			}

			// The alternate screen owns the terminal; only log to a file.
			logger := logging.Discard()
			if e.cfg.Log.File != "" {
				f, err := os.OpenFile(e.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logger = logging.New(f, logging.Options{Level: e.cfg.Log.Level, Prefix: "tada-ui", ReportTimestamp: true})
			}

			if err := tui.Run(cmd.Context(), client, tui.WithLogger(logger)); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("log-file", "", "write UI logs to this file")
	e.v.BindPFlag(config.KeyLogFile, cmd.Flags().Lookup("log-file"))
	return cmd
}
