// Package loop runs simulations for a single local user: interactively on a
// terminal, or headless as fast as the CPU allows.
package loop

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/tomz197/physics2d/internal/config"
	"github.com/tomz197/physics2d/internal/loop/client"
	"github.com/tomz197/physics2d/internal/loop/server"
	"github.com/tomz197/physics2d/internal/scene"
	"github.com/tomz197/physics2d/internal/simulation"
)

// Run hosts a private simulation and shows it on one terminal until the
// viewer quits or ctx is cancelled.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, cfg config.Sim, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	srv, err := server.NewServer(cfg, server.WithLogger(log))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		srv.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	// A cancelled context ends the viewer the same way a host shutdown does.
	go func() {
		<-ctx.Done()
		srv.Shutdown(0)
	}()

	c := client.NewClient(srv, r, w, client.ClientOptions{Name: "local", Logger: log})
	return c.Run()
}

// HeadlessOptions configures RunHeadless.
type HeadlessOptions struct {
	Steps int // Steps to run
	Every int // Write a snapshot every Every steps, 0 writes only the last
}

// RunHeadless steps the configured scene without a clock and writes snapshots
// to out as JSON lines. It returns the final snapshot.
func RunHeadless(ctx context.Context, cfg config.Sim, opts HeadlessOptions, out io.Writer, log *zap.Logger) (*simulation.Snapshot, error) {
	if log == nil {
		log = zap.NewNop()
	}
	doc, err := scene.Open(cfg.Scene)
	if err != nil {
		return nil, err
	}
	world, err := scene.Build(doc,
		simulation.WithLogger(log.Named("world")),
		simulation.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return nil, fmt.Errorf("build scene %q: %w", doc.Name, err)
	}

	enc := json.NewEncoder(out)
	dt := cfg.Step()
	for i := 1; i <= opts.Steps; i++ {
		if err := world.Step(ctx, dt); err != nil {
			return world.Snapshot(), err
		}
		if opts.Every > 0 && i%opts.Every == 0 && i != opts.Steps {
			if err := enc.Encode(world.Snapshot()); err != nil {
				return nil, fmt.Errorf("write snapshot: %w", err)
			}
		}
	}

	final := world.Snapshot()
	if err := enc.Encode(final); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}
	log.Info("headless run finished",
		zap.String("scene", doc.Name),
		zap.Uint64("steps", final.Step),
		zap.Uint64("checksum", final.Checksum),
	)
	return final, nil
}
