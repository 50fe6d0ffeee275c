package input

import (
	"bufio"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feed writes data into an open stream and waits until every byte is queued.
func feed(t *testing.T, data string) *Stream {
	t.Helper()
	r, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })
	s := StartStream(bufio.NewReader(r))
	_, err := io.WriteString(w, data)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(s.ch) == len(data) }, time.Second, time.Millisecond)
	return s
}

func TestReadInputCommands(t *testing.T) {
	s := feed(t, "pnrcb+3")
	in := ReadInput(s)

	assert.True(t, in.Pause)
	assert.True(t, in.Step)
	assert.True(t, in.Reset)
	assert.True(t, in.Contacts)
	assert.True(t, in.Labels)
	assert.True(t, in.ZoomIn)
	assert.False(t, in.ZoomOut)
	assert.Equal(t, 3, in.Number)
	assert.Equal(t, []byte("pnrcb+3"), in.Pressed)
}

func TestReadInputArrowsAreHeld(t *testing.T) {
	s := feed(t, "\x1b[A\x1b[D")
	in := ReadInput(s)
	assert.True(t, in.Up)
	assert.True(t, in.Left)
	assert.False(t, in.Right)
	assert.Equal(t, -1, in.Number)
	assert.False(t, in.Quit, "escape sequences are not quit")
}

func TestReadInputClosedStreamQuits(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("")))
	assert.Eventually(t, func() bool {
		return ReadInput(s).Quit
	}, time.Second, time.Millisecond)
	assert.True(t, s.Closed())
}

func TestApplyByte(t *testing.T) {
	tests := []struct {
		key  byte
		want func(Input) bool
	}{
		{'q', func(in Input) bool { return in.Quit }},
		{'\x03', func(in Input) bool { return in.Quit }},
		{' ', func(in Input) bool { return in.Pause }},
		{'N', func(in Input) bool { return in.Step }},
		{'_', func(in Input) bool { return in.ZoomOut }},
		{'9', func(in Input) bool { return in.Number == 9 }},
	}
	for _, tt := range tests {
		in := Input{Number: -1}
		var st keyState
		applyByte(&in, &st, tt.key, time.Now())
		assert.True(t, tt.want(in), "key %q", tt.key)
	}

	var st keyState
	now := time.Now()
	in := Input{}
	applyByte(&in, &st, 'h', now)
	assert.Equal(t, now, st.left)
}
