package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/star/snwatch/internal/api"
	"github.com/star/snwatch/internal/search"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				root.cfg.HTTP.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pipeline, err := root.newPipeline()
			if err != nil {
				return err
			}

			// Start from the newest cached page so re-filtering works at once.
			if snap, err := pipeline.LoadCached(); err != nil {
				root.logger.Info("no cached catalog, waiting for the first search", zap.Error(err))
			} else {
				root.logger.Info("loaded catalog from cache",
					zap.Int("records", len(snap.Records)),
					zap.Time("fetched_at", snap.FetchedAt),
				)
			}

			coord := search.NewCoordinator(ctx, pipeline.Run, root.cfg.Search.PollInterval, root.logger)
			srv := api.NewServer(root.cfg, pipeline, coord, root.logger)
			root.logger.Info("api configured",
				zap.String("addr", root.cfg.HTTP.Addr),
				zap.Bool("auth_enabled", root.cfg.Auth.Token != ""),
				zap.String("catalog", root.cfg.Catalog.URL),
			)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
