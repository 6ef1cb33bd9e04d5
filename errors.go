package lbswim

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (or carried by panics) by array operations.
var (
	// ErrBounds is returned when a field or coordinate index is out of range.
	ErrBounds = errors.New("lbswim: index out of range")

	// ErrAlignment marks a lane position or lane width that does not satisfy the
	// alignment contract, or a comparison between unrelated iteration contexts.
	// It is a programmer error and is raised by panicking.
	ErrAlignment = errors.New("lbswim: lane alignment violated")

	// ErrShape marks an invalid dimensionality or extent.
	// It is a programmer error and is raised by panicking.
	ErrShape = errors.New("lbswim: invalid shape")

	// ErrAlloc is returned when backing storage cannot be allocated.
	ErrAlloc = errors.New("lbswim: allocation failed")

	// ErrReleased is reported when a view is used after its owner was closed.
	ErrReleased = errors.New("lbswim: storage released")

	// ErrNotOwner is returned when Close is called on a non-owning view.
	ErrNotOwner = errors.New("lbswim: array is not the owner of its storage")
)

// BoundsError describes an out-of-range access. It unwraps to ErrBounds.
type BoundsError struct {
	Index int
	Len   int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("lbswim: index %d out of range [0,%d)", e.Index, e.Len)
}

func (e *BoundsError) Unwrap() error {
	return ErrBounds
}

// Faultf builds an error wrapping one of the sentinel errors. It is used for the
// values passed to panic on contract violations.
func Faultf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)
}
