package lbswim

// ElemVector is a strided view onto the field vector stored at one site.
// Component i lives at off+i*FieldStride in the owner's storage.
type ElemVector[T Scalar] struct {
	st  *storage[T]
	off int
}

// Len returns the field width.
func (v ElemVector[T]) Len() int {
	return v.st.nElem
}

// Offset returns the position of component 0 in the owner's storage.
func (v ElemVector[T]) Offset() int {
	return v.off
}

// Ptr returns a pointer to component i. It reports a *BoundsError if
// i is not in [0, Len()).
func (v ElemVector[T]) Ptr(i int) (*T, error) {
	if i < 0 || i >= v.st.nElem {
		return nil, &BoundsError{Index: i, Len: v.st.nElem}
	}

	if v.st.released.Load() {
		return nil, ErrReleased
	}

	return &v.st.data[v.off+i*v.st.fieldStride], nil
}

// Get returns component i.
func (v ElemVector[T]) Get(i int) (T, error) {
	p, err := v.Ptr(i)
	if err != nil {
		var zero T
		return zero, err
	}

	return *p, nil
}

// Set stores x into component i.
func (v ElemVector[T]) Set(i int, x T) error {
	p, err := v.Ptr(i)
	if err != nil {
		return err
	}

	*p = x

	return nil
}

// Values copies all components into a new slice.
func (v ElemVector[T]) Values() ([]T, error) {
	if v.st.released.Load() {
		return nil, ErrReleased
	}

	out := make([]T, v.st.nElem)
	for i := range out {
		out[i] = v.st.data[v.off+i*v.st.fieldStride]
	}

	return out, nil
}

// Const returns a read-only view of v.
func (v ElemVector[T]) Const() ConstElemVector[T] {
	return ConstElemVector[T]{v: v}
}

// ConstElemVector is the read-only form of ElemVector.
type ConstElemVector[T Scalar] struct {
	v ElemVector[T]
}

func (c ConstElemVector[T]) Len() int { return c.v.Len() }

func (c ConstElemVector[T]) Get(i int) (T, error) { return c.v.Get(i) }

func (c ConstElemVector[T]) Values() ([]T, error) { return c.v.Values() }
