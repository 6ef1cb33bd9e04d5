package lbswim

import (
	"fmt"
	"math"
	"slices"
)

// Shape is an N-dimensional extent or coordinate. The rank is len(Shape) and is
// fixed for the lifetime of every value built from it.
type Shape []int

// Product returns the number of elements spanned by s.
func (s Shape) Product() int {
	n := 1
	for _, d := range s {
		n *= d
	}

	return n
}

// checkedProduct is Product that reports false when the element count does
// not fit in an int.
func (s Shape) checkedProduct() (int, bool) {
	n := 1
	for _, d := range s {
		if d != 0 && n > math.MaxInt/d {
			return 0, false
		}
		n *= d
	}

	return n, true
}

// Equal reports whether s and o have the same rank and components.
func (s Shape) Equal(o Shape) bool {
	return slices.Equal(s, o)
}

// Clone returns a copy of s.
func (s Shape) Clone() Shape {
	return slices.Clone(s)
}

// Contains reports whether coord lies within the extent s.
func (s Shape) Contains(coord Shape) bool {
	if len(coord) != len(s) {
		return false
	}

	for d, c := range coord {
		if c < 0 || c >= s[d] {
			return false
		}
	}

	return true
}

func (s Shape) String() string {
	return fmt.Sprintf("%v", []int(s))
}

func (s Shape) validate() {
	if len(s) == 0 {
		panic(Faultf(ErrShape, "rank must be at least 1"))
	}

	for d, n := range s {
		if n < 0 {
			panic(Faultf(ErrShape, "negative extent %d in dimension %d", n, d))
		}
	}
}

// Layout maps a shape to the strides used to flatten coordinates.
type Layout interface {
	Strides(shape Shape) Shape
}

// RowMajor keeps the last dimension contiguous: stride[last] = 1 and
// stride[d] = stride[d+1]*shape[d+1]. All field components of a site share the
// same flat index.
type RowMajor struct{}

func (RowMajor) Strides(shape Shape) Shape {
	nd := len(shape)
	strides := make(Shape, nd)
	if nd == 0 {
		return strides
	}

	strides[nd-1] = 1
	for d := nd - 2; d >= 0; d-- {
		strides[d] = strides[d+1] * shape[d+1]
	}

	return strides
}

// Indexer maps N-dimensional coordinates to flat offsets and back.
// Indexers are values; Shape and Strides are never mutated after construction.
type Indexer struct {
	Shape   Shape
	Strides Shape
	Size    int
}

// NewIndexer builds a row-major indexer for shape.
// It panics with ErrShape if shape has rank 0 or a negative extent.
func NewIndexer(shape Shape) Indexer {
	return NewIndexerLayout(shape, RowMajor{})
}

// NewIndexerLayout builds an indexer for shape using layout.
func NewIndexerLayout(shape Shape, layout Layout) Indexer {
	shape.validate()

	return Indexer{
		Shape:   shape.Clone(),
		Strides: layout.Strides(shape),
		Size:    shape.Product(),
	}
}

// Rank returns the number of dimensions.
func (ix Indexer) Rank() int {
	return len(ix.Shape)
}

// Flatten returns sum(stride[d]*coord[d]). No bounds check is performed.
func (ix Indexer) Flatten(coord Shape) int {
	ijk := 0
	for d, s := range ix.Strides {
		ijk += s * coord[d]
	}

	return ijk
}

// Unflatten inverts Flatten for layouts whose strides decrease with the
// dimension index. Offsets past Size map to coordinates past the leading extent.
func (ix Indexer) Unflatten(ijk int) Shape {
	coord := make(Shape, len(ix.Strides))
	for d, s := range ix.Strides {
		if s == 0 {
			continue
		}

		coord[d] = ijk / s
		ijk %= s
	}

	return coord
}

// ReduceFrom returns the indexer of the view obtained by fixing the leading
// coordinate of parent. Shape and strides are the parent's trailing components
// and Size is recomputed from the reduced shape.
// It panics with ErrShape if parent has rank 1.
func ReduceFrom(parent Indexer) Indexer {
	if parent.Rank() < 2 {
		panic(Faultf(ErrShape, "cannot reduce a rank %d indexer", parent.Rank()))
	}

	shape := parent.Shape[1:].Clone()

	return Indexer{
		Shape:   shape,
		Strides: parent.Strides[1:].Clone(),
		Size:    shape.Product(),
	}
}
