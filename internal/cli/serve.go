package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/server"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/sqlitestore"
)

func newServeCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the todo server",
		Args:  withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(e.cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e.logger.Info("store opened", "backend", e.cfg.Store.Backend, "path", e.cfg.Store.Path)
			srv := server.New(st,
				server.WithLogger(e.logger),
				server.WithToken(e.cfg.Server.Token),
			)
			return srv.ListenAndServe(ctx, e.cfg.Server.Addr)
		},
	}
	f := cmd.Flags()
	f.String("addr", "", "listen address (default: :3000)")
	f.String("store", "", "storage backend: sqlite or json (default: sqlite)")
	f.String("data", "", "database or JSON file path (default: tada.db)")
	f.String("token", "", "require this bearer token from clients")
	e.v.BindPFlag(config.KeyServerAddr, f.Lookup("addr"))
	e.v.BindPFlag(config.KeyStoreBackend, f.Lookup("store"))
	e.v.BindPFlag(config.KeyStorePath, f.Lookup("data"))
	e.v.BindPFlag(config.KeyServerToken, f.Lookup("token"))
	return cmd
}

// openStore opens the configured backend.
func openStore(c config.StoreConfig) (store.Store, error) {
	switch c.Backend {
	case store.BackendSQLite, "":
		return sqlitestore.Open(c.Path)
	case store.BackendJSON:
		path := c.Path
		if path == "" || path == "tada.db" {
			path = jsonstore.DefaultFileName
		}
		return jsonstore.New(path)
	}
	return nil, usageErrorf("unknown store backend %q (want %s or %s)", c.Backend, store.BackendSQLite, store.BackendJSON)
}
