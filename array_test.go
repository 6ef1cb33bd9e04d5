package lbswim

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArraySubMatchesAt(t *testing.T) {
	t.Parallel()

	arr := mustNew[float64](t, Shape{2, 3}, 2, WithMaxLanes(4))

	for i := range 2 {
		for j := range 3 {
			for d := range 2 {
				if err := arr.At(i, j).Set(d, float64(100*d+10*i+j)); err != nil {
					t.Fatalf("Set: %v", err)
				}
			}
		}
	}

	p1, err := arr.Sub(1).Elem(2).Ptr(1)
	if err != nil {
		t.Fatalf("Ptr via Sub: %v", err)
	}

	p2, err := arr.At(1, 2).Ptr(1)
	if err != nil {
		t.Fatalf("Ptr via At: %v", err)
	}

	if p1 != p2 {
		t.Fatalf("arr.Sub(1).Elem(2) and arr.At(1,2) address different scalars")
	}

	if *p1 != 112 {
		t.Fatalf("value = %v, want 112", *p1)
	}
}

func TestArraySubView(t *testing.T) {
	t.Parallel()

	arr := mustNew[int32](t, Shape{2, 3, 4}, 1, WithMaxLanes(1))

	sub := arr.Sub(1)
	if sub.IsOwner() {
		t.Fatal("sub-view claims ownership")
	}

	if diff := cmp.Diff(Shape{3, 4}, sub.Shape()); diff != "" {
		t.Fatalf("sub shape mismatch (-want +got):\n%s", diff)
	}

	if sub.Size() != 12 {
		t.Fatalf("sub.Size() = %d, want 12", sub.Size())
	}

	if sub.Offset() != 12 {
		t.Fatalf("sub.Offset() = %d, want 12", sub.Offset())
	}

	if err := sub.Sub(2).Elem(3).Set(0, 7); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := arr.At(1, 2, 3).Get(0)
	if err != nil || got != 7 {
		t.Fatalf("At(1,2,3) = %v, %v; want 7", got, err)
	}

	if idx := arr.Indexer().Flatten(Shape{1, 2, 3}); arr.At(1, 2, 3).Offset() != idx {
		t.Fatalf("offset %d, want %d", arr.At(1, 2, 3).Offset(), idx)
	}
}

func TestArrayPaddedAllocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shape    Shape
		nElem    int
		lanes    int
		wantFS   int
		wantSize int
	}{
		{Shape{10}, 1, 4, 12, 10},
		{Shape{4, 5}, 1, 4, 20, 20},
		{Shape{3, 5}, 3, 4, 16, 15},
		{Shape{3, 5}, 2, 1, 15, 15},
		{Shape{0}, 1, 4, 0, 0},
	}

	for _, tt := range tests {
		arr := mustNew[float32](t, tt.shape, tt.nElem, WithMaxLanes(tt.lanes))

		if arr.FieldStride() != tt.wantFS {
			t.Errorf("%v lanes=%d: FieldStride = %d, want %d", tt.shape, tt.lanes, arr.FieldStride(), tt.wantFS)
		}

		if arr.Size() != tt.wantSize {
			t.Errorf("%v: Size = %d, want %d", tt.shape, arr.Size(), tt.wantSize)
		}

		if len(arr.Raw()) != tt.nElem*tt.wantFS {
			t.Errorf("%v: len(Raw) = %d, want %d", tt.shape, len(arr.Raw()), tt.nElem*tt.wantFS)
		}
	}
}

func TestArrayFieldMajorLayout(t *testing.T) {
	t.Parallel()

	arr := mustNew[float64](t, Shape{2, 2}, 3, WithMaxLanes(8))

	if err := arr.At(1, 0).Set(2, 5); err != nil {
		t.Fatalf("Set: %v", err)
	}

	want := 2 + 2*arr.FieldStride()
	if arr.Raw()[want] != 5 {
		t.Fatalf("component 2 of site 2 not stored at %d", want)
	}
}

func TestArrayEqualIsIdentity(t *testing.T) {
	t.Parallel()

	a := mustNew[int](t, Shape{4}, 1, WithMaxLanes(1))
	b := mustNew[int](t, Shape{4}, 1, WithMaxLanes(1))

	if a.Equal(*b) {
		t.Fatal("arrays with distinct buffers compare equal")
	}

	view := a.View()
	if !a.Equal(view) {
		t.Fatal("view of a does not compare equal to a")
	}

	m := mustNew[int](t, Shape{2, 3}, 1, WithMaxLanes(1))
	if m.Sub(0).Equal(m.Sub(1)) {
		t.Fatal("different rows compare equal")
	}

	if !m.Sub(1).Equal(m.Sub(1)) {
		t.Fatal("same row compares unequal")
	}
}

func TestArrayCopyIsView(t *testing.T) {
	t.Parallel()

	a := mustNew[float32](t, Shape{3}, 1, WithMaxLanes(1))
	cp := *a

	if err := cp.Elem(1).Set(0, 9); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if got, _ := a.Elem(1).Get(0); got != 9 {
		t.Fatalf("write through copy not visible: %v", got)
	}
}

func TestArrayLookupBounds(t *testing.T) {
	t.Parallel()

	arr := mustNew[float64](t, Shape{2, 3}, 1, WithMaxLanes(1))

	if _, err := arr.Lookup(1, 2); err != nil {
		t.Fatalf("Lookup(1,2): %v", err)
	}

	for _, coord := range []Shape{{2, 0}, {0, 3}, {-1, 0}, {1}} {
		_, err := arr.Lookup(coord...)
		if !errors.Is(err, ErrBounds) {
			t.Errorf("Lookup(%v) error = %v, want ErrBounds", coord, err)
		}
	}
}

func TestArrayWindow(t *testing.T) {
	t.Parallel()

	arr := mustNew[float32](t, Shape{3, 5}, 2, WithMaxLanes(4))

	data, stride, err := arr.Window(12, 4)
	if err != nil {
		t.Fatalf("Window(12,4): %v", err)
	}

	if stride != 16 || len(data) != 2*16-12 {
		t.Fatalf("stride=%d len=%d", stride, len(data))
	}

	if _, _, err := arr.Window(16, 4); !errors.Is(err, ErrBounds) {
		t.Fatalf("Window(16,4) error = %v, want ErrBounds", err)
	}

	// Last row viewed on its own: rounding its 5 sites up to 8 would run
	// past the padded field region.
	if _, _, err := arr.Sub(2).Window(4, 4); !errors.Is(err, ErrBounds) {
		t.Fatalf("Sub(2).Window(4,4) error = %v, want ErrBounds", err)
	}
}

func TestArrayFaults(t *testing.T) {
	t.Parallel()

	arr := mustNew[float64](t, Shape{2, 3}, 1, WithMaxLanes(2))

	assertPanicsWith(t, ErrShape, func() { arr.Elem(0) })
	assertPanicsWith(t, ErrShape, func() { arr.Sub(0).Sub(0) })
	assertPanicsWith(t, ErrShape, func() { _, _ = New[float64](Shape{}, 1) })
	assertPanicsWith(t, ErrShape, func() { _, _ = New[float64](Shape{2}, 0) })
	assertPanicsWith(t, ErrAlignment, func() { _, _ = New[float64](Shape{2}, 1, WithMaxLanes(3)) })
}

func TestArrayAllocationFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		shape    Shape
		maxLanes int
	}{
		{"bytes overflow", Shape{math.MaxInt / 4, 4}, 1},
		{"sites wrap to zero", Shape{1 << 32, 1 << 32}, 4},
		{"sites wrap negative", Shape{1 << 62, 3}, 4},
		{"padding overflow", Shape{math.MaxInt - 1}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			arr, err := New[float64](tt.shape, 2, WithMaxLanes(tt.maxLanes))
			if !errors.Is(err, ErrAlloc) {
				t.Fatalf("New(%v) error = %v, want ErrAlloc", tt.shape, err)
			}
			if arr != nil {
				t.Fatalf("New(%v) returned an array on failure", tt.shape)
			}
		})
	}
}

func TestArrayClose(t *testing.T) {
	t.Parallel()

	arr := mustNew[float64](t, Shape{2, 3}, 1, WithMaxLanes(1))
	row := arr.Sub(1)
	vec := row.Elem(0)

	if err := row.Close(); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("Close on view error = %v, want ErrNotOwner", err)
	}

	if row.Released() {
		t.Fatal("view reports released before Close")
	}

	if err := arr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if !row.Released() {
		t.Fatal("view does not report released after Close")
	}

	if err := arr.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if _, err := vec.Get(0); !errors.Is(err, ErrReleased) {
		t.Fatalf("Get after Close error = %v, want ErrReleased", err)
	}

	assertPanicsWith(t, ErrReleased, func() { row.Elem(1) })
}

func TestConstArray(t *testing.T) {
	t.Parallel()

	arr := mustNew[int64](t, Shape{2, 2}, 2, WithMaxLanes(1))
	if err := arr.At(1, 1).Set(1, 42); err != nil {
		t.Fatalf("Set: %v", err)
	}

	c := arr.Const()

	got, err := c.Sub(1).Elem(1).Get(1)
	if err != nil || got != 42 {
		t.Fatalf("const Get = %v, %v; want 42", got, err)
	}

	vals, err := c.At(1, 1).Values()
	if err != nil {
		t.Fatalf("Values: %v", err)
	}

	if diff := cmp.Diff([]int64{0, 42}, vals); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if !c.Equal(arr.Const()) {
		t.Fatal("const views of the same array compare unequal")
	}
}
