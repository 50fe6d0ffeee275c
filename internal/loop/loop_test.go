package loop

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/physics2d/internal/config"
	"github.com/tomz197/physics2d/internal/scene"
	"github.com/tomz197/physics2d/internal/simulation"
)

func sim(sceneName string, workers int) config.Sim {
	cfg := config.DefaultSim()
	cfg.Scene = sceneName
	cfg.Workers = workers
	return cfg
}

func TestRunHeadlessWritesSnapshots(t *testing.T) {
	var out bytes.Buffer
	final, err := RunHeadless(context.Background(), sim("bounce", 1), HeadlessOptions{Steps: 10, Every: 3}, &out, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), final.Step)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	steps := make([]uint64, 0, len(lines))
	for _, line := range lines {
		var snap simulation.Snapshot
		require.NoError(t, json.Unmarshal([]byte(line), &snap))
		steps = append(steps, snap.Step)
	}
	assert.Equal(t, []uint64{3, 6, 9, 10}, steps)
}

func TestRunHeadlessIsDeterministic(t *testing.T) {
	a, err := RunHeadless(context.Background(), sim("billiards", 1), HeadlessOptions{Steps: 120}, io.Discard, nil)
	require.NoError(t, err)
	b, err := RunHeadless(context.Background(), sim("billiards", 4), HeadlessOptions{Steps: 120}, io.Discard, nil)
	require.NoError(t, err)
	assert.Equal(t, a.Checksum, b.Checksum)
}

func TestRunHeadlessErrors(t *testing.T) {
	_, err := RunHeadless(context.Background(), sim("pinball", 1), HeadlessOptions{Steps: 1}, io.Discard, nil)
	assert.ErrorIs(t, err, scene.ErrUnknownPreset)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap, err := RunHeadless(ctx, sim("bounce", 1), HeadlessOptions{Steps: 5}, io.Discard, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, snap)
	assert.Zero(t, snap.Step)
}

func TestRunQuits(t *testing.T) {
	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), bufio.NewReader(strings.NewReader("q")), io.Discard, sim("springs", 1), nil)
	}()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
}
