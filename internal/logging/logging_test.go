package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want zap.AtomicLevel
	}{
		{"", zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"debug", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"warn", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"ERROR", zap.NewAtomicLevelAt(zap.ErrorLevel)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, err := ParseLevel(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Level(), lvl)
		})
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	logger, err := New("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	path := t.TempDir() + "/sim.log"
	logger, err = New("warn", path)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	logger.Warn("written to file")
	_ = logger.Sync()
	assert.FileExists(t, path)

	_, err = New("loud")
	assert.Error(t, err)
}
