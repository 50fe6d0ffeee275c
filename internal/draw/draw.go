// Package draw renders simulation snapshots on a terminal using half-block
// characters, which give every cell two square-ish sub-pixels.
package draw

// Point is a position in logical canvas coordinates (y grows downward).
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
