package lbswim

import (
	"unsafe"

	"github.com/WhiteTshirtXI/lbswim/internal/cpu"
)

type arrayOptions struct {
	maxLanes int
	layout   Layout
}

// Option configures array construction.
type Option func(*arrayOptions)

// WithMaxLanes sets the widest lane group the array must support. n must be a
// positive power of two. Each field region is padded to a multiple of n.
func WithMaxLanes(n int) Option {
	return func(o *arrayOptions) {
		o.maxLanes = n
	}
}

// WithLayout overrides the row-major layout policy.
func WithLayout(l Layout) Option {
	return func(o *arrayOptions) {
		o.layout = l
	}
}

func resolveOptions[T Scalar](opts []Option) arrayOptions {
	var zero T

	o := arrayOptions{
		maxLanes: cpu.DefaultLanes(int(unsafe.Sizeof(zero))),
		layout:   RowMajor{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
