package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vjranagit/imurun/pkg/api"
	"github.com/vjranagit/imurun/pkg/search"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the sample file and serve the search API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadStore()
			if err != nil {
				return err
			}

			cfg := a.cfg
			a.logger.Info("configuration loaded",
				"listen_addr", cfg.Server.ListenAddr,
				"data_file", cfg.Store.DataFile,
				"samples", s.Size(),
				"cache_capacity", cfg.Cache.Capacity,
				"cache_ttl", cfg.Cache.TTL,
				"timestamp_fallback", cfg.Store.TimestampFallback,
			)

			server := api.NewServer(cfg.Server.ListenAddr, s, search.NewCache(cfg.Cache.Capacity, cfg.Cache.TTL), a.logger)
			server.SetTimeout(cfg.Server.Timeout)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				a.logger.Info("API server listening", "addr", cfg.Server.ListenAddr)
				return server.Start()
			})
			g.Go(func() error {
				<-ctx.Done()
				a.logger.Info("shutdown signal received, stopping server")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				return server.Stop(shutdownCtx)
			})

			if err := g.Wait(); err != nil {
				a.logger.Error("server error", "error", err)
				return err
			}
			a.logger.Info("server stopped")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&a.cfg.Server.ListenAddr, "addr", a.cfg.Server.ListenAddr, "listen address [IMURUN_LISTEN_ADDR]")
	flags.IntVar(&a.cfg.Cache.Capacity, "cache-capacity", a.cfg.Cache.Capacity, "search result cache entries, 0 disables [IMURUN_CACHE_CAPACITY]")
	flags.DurationVar(&a.cfg.Cache.TTL, "cache-ttl", a.cfg.Cache.TTL, "search result cache TTL [IMURUN_CACHE_TTL]")
	return cmd
}
