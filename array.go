package lbswim

import "fmt"

// Array is an N-dimensional array of field vectors of width NElem.
//
// An Array value is a view: copying it copies the shape, strides and storage
// handle, never the data. The *Array returned by New is the owner of the
// storage; every Array obtained from it through Sub or View is non-owning and
// must not be used after the owner is closed.
type Array[T Scalar] struct {
	idx   Indexer
	st    *storage[T]
	off   int
	owner bool
}

// New allocates an owning array of the given shape with nElem components per
// site. The buffer holds nElem field regions of RoundUp(shape.Product(),
// maxLanes) elements each, zero initialised.
//
// New panics with ErrShape if shape has rank 0, a negative extent or
// nElem < 1, and with ErrAlignment if the max lane width is not a power of two.
// It returns an error wrapping ErrAlloc if the buffer cannot be allocated.
func New[T Scalar](shape Shape, nElem int, opts ...Option) (*Array[T], error) {
	o := resolveOptions[T](opts)
	idx := NewIndexerLayout(shape, o.layout)
	if _, ok := shape.checkedProduct(); !ok {
		return nil, fmt.Errorf("%w: shape %v overflows the site count", ErrAlloc, shape)
	}

	st, err := newStorage[T](idx.Size, nElem, o.maxLanes)
	if err != nil {
		return nil, err
	}

	return &Array[T]{idx: idx, st: st, owner: true}, nil
}

// Rank returns the number of dimensions.
func (a Array[T]) Rank() int {
	return a.idx.Rank()
}

// Shape returns a copy of the extent.
func (a Array[T]) Shape() Shape {
	return a.idx.Shape.Clone()
}

// Strides returns a copy of the strides.
func (a Array[T]) Strides() Shape {
	return a.idx.Strides.Clone()
}

// Size returns the number of sites spanned by this array or view.
func (a Array[T]) Size() int {
	return a.idx.Size
}

// Indexer returns the indexer of this array or view.
func (a Array[T]) Indexer() Indexer {
	return a.idx
}

// NElem returns the field width.
func (a Array[T]) NElem() int {
	return a.st.nElem
}

// FieldStride returns the distance between consecutive components of a site.
func (a Array[T]) FieldStride() int {
	return a.st.fieldStride
}

// MaxLanes returns the widest lane group the storage was padded for.
func (a Array[T]) MaxLanes() int {
	return a.st.maxLanes
}

// Offset returns the position of this view's first site in the storage.
func (a Array[T]) Offset() int {
	return a.off
}

// IsOwner reports whether a owns its storage.
func (a Array[T]) IsOwner() bool {
	return a.owner
}

// View returns a non-owning copy of a.
func (a Array[T]) View() Array[T] {
	a.st.mustLive()
	a.owner = false

	return a
}

// Sub fixes the leading coordinate to i and returns the (N-1)-dimensional
// view. It panics with ErrShape on a one-dimensional array; use Elem instead.
func (a Array[T]) Sub(i int) Array[T] {
	a.st.mustLive()
	if a.Rank() < 2 {
		panic(Faultf(ErrShape, "Sub on a rank 1 array"))
	}

	return Array[T]{
		idx: ReduceFrom(a.idx),
		st:  a.st,
		off: a.off + i*a.idx.Strides[0],
	}
}

// Elem returns the field vector at index i of a one-dimensional array.
// It panics with ErrShape on arrays of higher rank.
func (a Array[T]) Elem(i int) ElemVector[T] {
	a.st.mustLive()
	if a.Rank() != 1 {
		panic(Faultf(ErrShape, "Elem on a rank %d array", a.Rank()))
	}

	return ElemVector[T]{st: a.st, off: a.off + i*a.idx.Strides[0]}
}

// At returns the field vector at the full coordinate coord. It is equivalent
// to descending with Sub and Elem but computed in one step. Coordinates are not
// bounds checked; see Lookup.
func (a Array[T]) At(coord ...int) ElemVector[T] {
	a.st.mustLive()

	return ElemVector[T]{st: a.st, off: a.off + a.idx.Flatten(coord)}
}

// Lookup is At with a bounds check on every coordinate.
func (a Array[T]) Lookup(coord ...int) (ElemVector[T], error) {
	if len(coord) != a.Rank() {
		return ElemVector[T]{}, fmt.Errorf("%w: coordinate rank %d, array rank %d", ErrBounds, len(coord), a.Rank())
	}

	for d, c := range coord {
		if c < 0 || c >= a.idx.Shape[d] {
			return ElemVector[T]{}, fmt.Errorf("dimension %d: %w", d, &BoundsError{Index: c, Len: a.idx.Shape[d]})
		}
	}

	return a.At(coord...), nil
}

// Site returns the field vector at flat offset ijk relative to this view.
func (a Array[T]) Site(ijk int) ElemVector[T] {
	a.st.mustLive()

	return ElemVector[T]{st: a.st, off: a.off + ijk}
}

// Window returns the storage starting at flat offset ijk of this view together
// with the field stride, after checking that width consecutive sites starting
// at ijk stay inside the field region. Component d of site ijk+l is
// data[l+d*stride].
func (a Array[T]) Window(ijk, width int) (data []T, stride int, err error) {
	a.st.mustLive()

	start := a.off + ijk
	if start < 0 || start+width > a.st.fieldStride {
		return nil, 0, fmt.Errorf("lane window [%d,%d): %w", start, start+width,
			&BoundsError{Index: start + width - 1, Len: a.st.fieldStride})
	}

	return a.st.data[start:], a.st.fieldStride, nil
}

// Raw returns the whole backing storage, all field regions including padding.
func (a Array[T]) Raw() []T {
	a.st.mustLive()

	return a.st.data
}

// Equal reports whether a and o are views of the same data: same storage and
// same first site. Contents are not compared.
func (a Array[T]) Equal(o Array[T]) bool {
	return a.st == o.st && a.off == o.off
}

// Const returns a read-only view of a.
func (a Array[T]) Const() ConstArray[T] {
	return ConstArray[T]{a: a.View()}
}

// Close releases the storage. Only the owner may close; later use of any view
// panics with ErrReleased and element access returns ErrReleased.
func (a *Array[T]) Close() error {
	if !a.owner {
		return ErrNotOwner
	}

	if a.st.released.Swap(true) {
		return nil
	}

	a.st.data = nil

	return nil
}

// Released reports whether the owner has closed the storage.
func (a Array[T]) Released() bool {
	return a.st == nil || a.st.released.Load()
}

// ConstArray is the read-only form of Array.
type ConstArray[T Scalar] struct {
	a Array[T]
}

func (c ConstArray[T]) Rank() int { return c.a.Rank() }
func (c ConstArray[T]) Shape() Shape { return c.a.Shape() }
func (c ConstArray[T]) Size() int { return c.a.Size() }
func (c ConstArray[T]) NElem() int { return c.a.NElem() }
func (c ConstArray[T]) Indexer() Indexer { return c.a.Indexer() }

// Sub is the read-only form of Array.Sub.
func (c ConstArray[T]) Sub(i int) ConstArray[T] {
	return ConstArray[T]{a: c.a.Sub(i)}
}

// Elem is the read-only form of Array.Elem.
func (c ConstArray[T]) Elem(i int) ConstElemVector[T] {
	return c.a.Elem(i).Const()
}

// At is the read-only form of Array.At.
func (c ConstArray[T]) At(coord ...int) ConstElemVector[T] {
	return c.a.At(coord...).Const()
}

// Equal reports whether c and o view the same data.
func (c ConstArray[T]) Equal(o ConstArray[T]) bool {
	return c.a.Equal(o.a)
}
