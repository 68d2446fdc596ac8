package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/gate"
	"github.com/portfolio/internal/router"
	"github.com/portfolio/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	gin.SetMode(cfg.GinMode)

	store, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if _, err := service.NewProjectService(store, a.logger).BackfillVariants(ctx); err != nil {
		a.logger.Warn("project variant backfill failed", zap.Error(err))
	}

	adminGate, err := gate.New(gate.Config{SetupToken: cfg.AdminSetupToken, Password: cfg.AdminPassword})
	if err != nil {
		return err
	}
	if adminGate.Misconfigured() {
		a.logger.Warn("ADMIN_PASSWORD is not set; admin unlock is disabled")
	}
	if cfg.AdminSetupToken == "" {
		a.logger.Warn("ADMIN_SETUP_TOKEN is not set; no device can be trusted")
	}

	retentionCtx, cancelRetention := context.WithCancel(ctx)
	retentionDone := make(chan struct{})
	go func() {
		defer close(retentionDone)
		service.NewVisitorService(store, a.logger).
			RunRetention(retentionCtx, cfg.VisitorPurgeInterval, cfg.VisitorRetention)
	}()
	defer func() {
		cancelRetention()
		<-retentionDone
	}()

	engine := router.SetupRouter(router.Options{
		Store:         store,
		Gate:          adminGate,
		Logger:        a.logger,
		SessionSecret: cfg.SessionSecret,
		UploadDir:     cfg.UploadDir,
		UploadURL:     cfg.UploadURLPath,
		DeviceMaxAge:  cfg.TrustedDeviceMaxAge,
		SecureCookies: cfg.SecureCookies,
		SiteIndex:     cfg.SiteIndex,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", zap.String("addr", cfg.ListenAddr), zap.String("site", cfg.SiteBaseURL))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
