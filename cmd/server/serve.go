package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"route_dispatch/internal/config"
	"route_dispatch/internal/controllers"
	"route_dispatch/internal/events"
	"route_dispatch/internal/middleware"
	"route_dispatch/internal/routes"
	"route_dispatch/internal/services"
)

const shutdownGrace = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate, seed the super admin and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, db, logOut, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDB(db)

	if err := config.Migrate(db); err != nil {
		return err
	}
	if err := config.SeedSuperAdmin(db, cfg); err != nil {
		logrus.WithError(err).Warn("could not seed super admin")
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	hub := events.NewHub()
	defer hub.Close()

	deps := controllers.Deps{
		DB: db,
		Services: services.New(services.Options{
			DB:        db,
			Events:    hub,
			TxTimeout: cfg.TxTimeout,
		}),
		Tokens:      middleware.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		Hub:         hub,
		MaxPageSize: cfg.MaxPageSize,
	}
	r := routes.SetupRouter(deps, routes.Options{LogWriter: logOut, CORSOrigins: cfg.CORSOrigins})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Server running at :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-quit:
	}
	logrus.Info("Shutting down server...")

	hub.Close()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("Server exited gracefully")
	return nil
}
