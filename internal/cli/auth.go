package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newAuthCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the API token (login, logout, status, whoami)",
		Args:  withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Help()
			return &exitErr{code: exitUsage}
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "login",
			Short: "Save a token to ~/.tada/credentials.json",
			Args:  withUsage(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprint(e.out, "Paste your token: ")
				line, err := bufio.NewReader(e.in).ReadString('\n')
				if err != nil && strings.TrimSpace(line) == "" {
					return fmt.Errorf("read token: %w", err)
				}
				fmt.Fprintln(e.out)
				if err := auth.SetToken(line, nil); err != nil {
					return fmt.Errorf("save token: %w", err)
				}
				ui.OK(e.out, "logged in")
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Delete the saved token",
			Args:  withUsage(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				ti, _ := auth.GetToken()
				if ti != nil && ti.Source == auth.SourceEnv {
					ui.OK(e.out, "token is provided by "+auth.EnvToken+" env var (nothing to delete)")
					return nil
				}
				if err := auth.DeleteToken(); err != nil {
					return fmt.Errorf("logout: %w", err)
				}
				ui.OK(e.out, "logged out")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where the token comes from",
			Args:  withUsage(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				ti, err := auth.GetToken()
				if err != nil {
					return err
				}
				if ti == nil {
					fmt.Fprintln(e.out, ui.Current().Muted.Render("not logged in"))
					fmt.Fprintln(e.out, "Run: tada auth login")
					return nil
				}
				fmt.Fprintf(e.out, "source: %s\n", ti.Source)
				if ti.ExpiresAt != nil {
					exp := ti.ExpiresAt.UTC().Format(time.RFC3339)
					if ti.Expired(time.Now()) {
						exp = ui.Current().Error.Render(exp + " (expired)")
					}
					fmt.Fprintf(e.out, "expires: %s\n", exp)
				} else {
					fmt.Fprintln(e.out, "expires: (unknown)")
				}
				fmt.Fprintln(e.out, "env override: "+auth.EnvToken)
				return nil
			},
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Decode the token payload locally (JWT only)",
			Args:  withUsage(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				ti, _ := auth.GetToken()
				if ti == nil {
					return usageErrorf("not logged in. Run: tada auth login")
				}
				if payload, ok := auth.JWTPayload(ti.Token); ok {
					fmt.Fprintln(e.out, "JWT payload:")
					fmt.Fprintln(e.out, payload)
					return nil
				}
				fmt.Fprintln(e.out, "Opaque token (cannot introspect locally).")
				fmt.Fprintln(e.out, "source:", ti.Source)
				return nil
			},
		},
	)
	return cmd
}
