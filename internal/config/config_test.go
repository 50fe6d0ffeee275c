package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("PHYSICS2D_TEST_PORT", "2222")
	assert.Equal(t, "2222", GetEnv("PHYSICS2D_TEST_PORT", "23234"))
	assert.Equal(t, "fallback", GetEnv("PHYSICS2D_TEST_UNSET", "fallback"))

	t.Setenv("PHYSICS2D_TEST_EMPTY", "")
	assert.Equal(t, "", GetEnv("PHYSICS2D_TEST_EMPTY", "fallback"), "set but empty wins")
}

func TestLoad(t *testing.T) {
	s, err := Load(strings.NewReader("tick_rate: 120\nworkers: 4\nlog_level: debug\nscene: billiards\n"))
	require.NoError(t, err)
	assert.Equal(t, Sim{TickRate: 120, Workers: 4, LogLevel: "debug", Scene: "billiards"}, s)
	assert.Equal(t, 1.0/120, s.Step())
	assert.Equal(t, time.Second/120, s.Tick())
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultSim(), s)

	s, err = Load(strings.NewReader("scene: tank\n"))
	require.NoError(t, err)
	assert.Equal(t, TickRate, s.TickRate)
	assert.Equal(t, 1, s.Workers)
	assert.Equal(t, "tank", s.Scene)
}

func TestLoadRejects(t *testing.T) {
	_, err := Load(strings.NewReader("tick_rate: -1\n"))
	assert.ErrorIs(t, err, ErrInvalidSim)

	_, err = Load(strings.NewReader("tickrate: 30\n"))
	assert.Error(t, err)

	_, err = Load(strings.NewReader("workers: many\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	s, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSim(), s)

	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 3\nscene: tank\n"), 0o600))
	s, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Workers)
	assert.Equal(t, "tank", s.Scene)
	assert.Equal(t, TickRate, s.TickRate)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
