package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rogerio-castellano/storefront/internal/http/handlers"
	rl "github.com/rogerio-castellano/storefront/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront/internal/http/router"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg := appCtx.Config
	logger := appCtx.Logger

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	h := handlers.New(handlers.Deps{
		Catalog:  appCtx.Catalog,
		Carts:    appCtx.Carts,
		Inbox:    appCtx.Inbox,
		Stats:    appCtx.Stats,
		Sessions: appCtx.Sessions,
		Logger:   logger,
	})
	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: router.NewRouter(h, router.Options{
			Logger:      logger,
			Limiter:     limiter,
			Sessions:    appCtx.Sessions,
			CORSOrigins: cfg.CORS.Origins,
		}),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		limiter.StartCleanupLoop(ctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("server running",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("backend", cfg.Storage.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
