package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/physics2d/internal/maths"
)

func springPair() (*Body, *Body, *Spring) {
	left := NewBody("left", maths.V3(0, 0, 0), NewQuad(maths.V2(1, 1)), PushOut{})
	right := NewBody("right", maths.V3(3, 0, 0), NewQuad(maths.V2(1, 1)), PushOut{})
	return left, right, NewSpring(left, right, maths.V2(1.5, 0), 10, maths.One[maths.D2]())
}

func TestSpringAtRest(t *testing.T) {
	left, right, s := springPair()
	assert.Equal(t, maths.V2(2, -1), s.RestLength())

	s.Update()
	assert.Equal(t, maths.V2(1, 1), s.Stretch)
	for _, b := range []*Body{left, right} {
		pending := b.Forces.OneTime()
		require.Len(t, pending, 1)
		assert.Equal(t, 0.0, pending[0].Value.Magnitude())
	}
}

func TestSpringPullsTowardAnchor(t *testing.T) {
	left, right, s := springPair()
	right.Position = maths.V3(4, 0, 0)

	s.Update()
	assert.Equal(t, 1.5, s.Stretch.X())

	l := left.Forces.OneTime()
	r := right.Forces.OneTime()
	require.Len(t, l, 1)
	require.Len(t, r, 1)
	assert.InDelta(t, 5, l[0].Value.X(), 1e-12)
	assert.InDelta(t, -5, r[0].Value.X(), 1e-12)
	assert.InDelta(t, 0, l[0].Value.Y(), 1e-12)
}

func TestSpringPushesWhenCompressed(t *testing.T) {
	left, right, s := springPair()
	right.Position = maths.V3(2, 0, 0)

	s.Update()
	assert.Equal(t, 0.5, s.Stretch.X())
	assert.InDelta(t, -5, left.Forces.OneTime()[0].Value.X(), 1e-12)
	assert.InDelta(t, 5, right.Forces.OneTime()[0].Value.X(), 1e-12)
}

func TestSpringSkipsStaticEnd(t *testing.T) {
	wallCollider := NewQuad(maths.V2(1, 1))
	wallCollider.Static = true
	wall := NewBody("wall", maths.V3(0, 0, 0), wallCollider, nil)
	weight := NewBody("weight", maths.V3(4, 0, 0), NewQuad(maths.V2(1, 1)), PushOut{})

	s := NewSpring(wall, weight, maths.V2(2, 0), 10, maths.V2(2, 1))
	assert.Equal(t, maths.V2(1.5, -1), s.RestLength())

	s.Update()
	assert.Nil(t, wall.Forces)
	require.Len(t, weight.Forces.OneTime(), 1)
	assert.InDelta(t, -10, weight.Forces.OneTime()[0].Value.X(), 1e-12)
}
