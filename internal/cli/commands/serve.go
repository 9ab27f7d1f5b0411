package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/coltype/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog API over HTTP",
		Long: `Start a JSON HTTP API that parses types and serves the stored catalog
with collapsed labels. With --watch, the given catalog file is imported on
start and re-imported whenever it changes.`,
		Example: `  coltype serve --addr :9090
  coltype serve --watch catalog.yaml`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	// Bound to serve.addr and serve.watch by the config loader
	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	cmd.Flags().String("watch", "", "Catalog file to import and watch for changes")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	store, err := cmdCtx.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	srv := server.New(server.Config{
		Store:           store,
		Addr:            cfg.Serve.Addr,
		WatchFile:       cfg.Serve.Watch,
		Strict:          cfg.Strict,
		MaxDepth:        cfg.MaxDepth,
		ShutdownTimeout: cfg.Serve.ShutdownTimeout,
		Logger:          cmdCtx.Logger,
	})

	if cfg.Serve.Watch != "" {
		if _, err := srv.Reload(ctx); err != nil {
			return err
		}
	}

	cmdCtx.Renderer.Success("Serving catalog API on " + displayAddr(cfg.Serve.Addr))
	return srv.Serve(ctx)
}

func displayAddr(addr string) string {
	if addr == "" {
		return ":8080"
	}
	return addr
}
