package lbswim

import (
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/WhiteTshirtXI/lbswim/internal/cpu"
)

// storage is the single allocation shared by an owning Array and all of its
// views. It is released exactly once, by the owner.
type storage[T Scalar] struct {
	data        []T
	nElem       int
	fieldStride int
	maxLanes    int
	released    atomic.Bool
}

func newStorage[T Scalar](size, nElem, maxLanes int) (st *storage[T], err error) {
	if nElem < 1 {
		panic(Faultf(ErrShape, "field width must be at least 1, got %d", nElem))
	}

	if !cpu.IsPow2(maxLanes) {
		panic(Faultf(ErrAlignment, "max lane width %d is not a power of two", maxLanes))
	}

	if size > math.MaxInt-maxLanes {
		return nil, fmt.Errorf("%w: %d sites cannot be padded to %d lanes", ErrAlloc, size, maxLanes)
	}

	fieldStride := cpu.RoundUp(size, maxLanes)

	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if fieldStride > 0 && nElem > math.MaxInt/elemSize/fieldStride {
		return nil, fmt.Errorf("%w: %d fields of %d elements overflow", ErrAlloc, nElem, fieldStride)
	}

	defer func() {
		if r := recover(); r != nil {
			st = nil
			err = fmt.Errorf("%w: %v", ErrAlloc, r)
		}
	}()

	return &storage[T]{
		data:        make([]T, nElem*fieldStride),
		nElem:       nElem,
		fieldStride: fieldStride,
		maxLanes:    maxLanes,
	}, nil
}

func (s *storage[T]) mustLive() {
	if s.released.Load() {
		panic(ErrReleased)
	}
}
