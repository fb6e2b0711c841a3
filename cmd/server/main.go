package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-job-trend-analyzer/internal/app"
	"go-job-trend-analyzer/internal/config"
	"go-job-trend-analyzer/internal/logger"
	"go-job-trend-analyzer/internal/server"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default $CONFIG_PATH or configs/config.yaml)")
	flag.Parse()

	if err := run(config.Path(*configPath)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	a, err := app.Load(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = a.Log.Sync() }()

	if !a.Config.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := server.NewRouter(a.Pipeline, a.Config.Search, a.Log)
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("Server listening", logger.String("addr", srv.Addr), logger.String("data_path", a.Config.DataPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
