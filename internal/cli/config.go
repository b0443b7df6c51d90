package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newConfigCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
		Args:  withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := e.cfg
			used := e.v.ConfigFileUsed()
			if used == "" {
				used = "(none, using defaults)"
			}
			fmt.Fprintf(e.out, "file:           %s\n", used)
			fmt.Fprintf(e.out, "server.addr:    %s\n", c.Server.Addr)
			fmt.Fprintf(e.out, "server.token:   %s\n", mask(c.Server.Token))
			fmt.Fprintf(e.out, "store.backend:  %s\n", c.Store.Backend)
			fmt.Fprintf(e.out, "store.path:     %s\n", c.Store.Path)
			fmt.Fprintf(e.out, "client.url:     %s\n", c.Client.URL)
			fmt.Fprintf(e.out, "client.timeout: %s\n", c.Client.Timeout)
			fmt.Fprintf(e.out, "log.level:      %s\n", c.Log.Level)
			fmt.Fprintf(e.out, "ui.theme:       %s\n", c.UI.Theme)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:         "init",
		Short:       "Write a documented default config file",
		Args:        withUsage(cobra.NoArgs),
		Annotations: map[string]string{skipConfigFile: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := e.cfgFile
			if path == "" {
				dir, err := config.DefaultDir()
				if err != nil {
					return err
				}
				path = filepath.Join(dir, "config.yaml")
			}
			created, err := config.WriteDefault(path)
			if err != nil {
				return err
			}
			if !created {
				ui.OK(e.out, path+" already exists")
				return nil
			}
			ui.OK(e.out, "wrote "+path)
			return nil
		},
	})
	return cmd
}

func mask(s string) string {
	if s == "" {
		return "(none)"
	}
	return "********"
}
