package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/physics2d/internal/config"
	"github.com/tomz197/physics2d/internal/logging"
	"github.com/tomz197/physics2d/internal/loop/server"
	"github.com/tomz197/physics2d/internal/loop/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

func main() {
	cfg, err := config.LoadFile(config.GetEnv("PHYSICS2D_CONFIG", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("web host failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Sim, log *zap.Logger) error {
	addr := net.JoinHostPort(config.GetEnv("WEB_HOST", defaultHost), config.GetEnv("WEB_PORT", defaultPort))

	sim, err := server.NewServer(cfg, server.WithLogger(log.Named("host")))
	if err != nil {
		return err
	}
	simCtx, cancelSim := context.WithCancel(context.Background())
	defer cancelSim()
	go sim.Run(simCtx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           web.NewHandler(sim, log.Named("web")),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	log.Info("starting web server", zap.String("addr", "http://"+addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	}
	log.Info("shutting down")

	// Streams close on the shutdown event, then the listener stops.
	sim.Shutdown(5 * time.Second)
	cancelSim()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
