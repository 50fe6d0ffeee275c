package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tomz197/physics2d/internal/config"
	"github.com/tomz197/physics2d/internal/logging"
	"github.com/tomz197/physics2d/internal/loop"
)

var (
	configPath = flag.String("config", config.GetEnv("PHYSICS2D_CONFIG", ""), "YAML simulation config")
	sceneFlag  = flag.String("scene", "", "preset name or scene file, overrides the config")
	workers    = flag.Int("workers", 0, "detection goroutines, overrides the config")
	logFile    = flag.String("log", "physics2d.log", "log file for the interactive viewer")
	headless   = flag.Bool("headless", false, "step without a terminal and print snapshots as JSON lines")
	steps      = flag.Int("steps", 600, "steps to run in headless mode")
	every      = flag.Int("every", 0, "print a snapshot every n steps in headless mode, 0 prints only the last")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	if *sceneFlag != "" {
		cfg.Scene = *sceneFlag
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *headless {
		return runHeadless(ctx, cfg)
	}
	return runTerminal(ctx, cfg)
}

// runHeadless logs to stderr so stdout carries only snapshots.
func runHeadless(ctx context.Context, cfg config.Sim) int {
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	opts := loop.HeadlessOptions{Steps: *steps, Every: *every}
	if _, err := loop.RunHeadless(ctx, cfg, opts, os.Stdout, log); err != nil {
		log.Error("headless run failed", zap.Error(err))
		return 1
	}
	return 0
}

// runTerminal logs to a file because the terminal is owned by the viewer.
func runTerminal(ctx context.Context, cfg config.Sim) int {
	log, err := logging.New(cfg.LogLevel, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		return 1
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	if err := loop.Run(ctx, reader, os.Stdout, cfg, log); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "simulation error: %v\n", err)
		log.Error("simulation error", zap.Error(err))
		return 1
	}
	return 0
}
