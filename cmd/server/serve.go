package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/balasutharsan1247/student-fitness-app/internal/api"
	"github.com/balasutharsan1247/student-fitness-app/internal/auth"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		repos, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := repos.Close(); err != nil {
				logger.Errorf("failed to flush storage: %v", err)
			}
		}()
		if err := repos.Migrate(ctx); err != nil {
			return err
		}

		if cfg.Env == "production" {
			gin.SetMode(gin.ReleaseMode)
		}

		tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
		app := api.NewApplication(repos, tokens, logger)
		limiter := api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go limiter.Cleanup(ctx, time.Minute, 3*time.Minute)

		router := api.NewRouter(app, auth.NewTokenProvider(tokens, repos.Users, logger), api.RouterOptions{
			Limiter: limiter,
			Metrics: cfg.MetricsEnabled,
		})

		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Infof("Server running on %s (%s, %s storage)", cfg.HTTPAddr, cfg.Env, cfg.DBType)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				logger.Errorf("server stopped: %v", err)
				return err
			}
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
