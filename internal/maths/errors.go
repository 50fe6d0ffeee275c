package maths

import (
	"errors"
	"fmt"
)

// Precondition errors. Algebra operations panic with one of these wrapped,
// since a mismatch always means a programming error in the caller.
var (
	ErrSizeMismatch = errors.New("maths: size mismatch")
	ErrNotSquare    = errors.New("maths: matrix is not square")
	ErrOutOfRange   = errors.New("maths: index out of range")
)

func mustSize(op string, got, want int) {
	if got != want {
		panic(fmt.Errorf("%w: %s: got %d values, want %d", ErrSizeMismatch, op, got, want))
	}
}

func mustIndex(op string, i, n int) {
	if i < 0 || i >= n {
		panic(fmt.Errorf("%w: %s: index %d, size %d", ErrOutOfRange, op, i, n))
	}
}
