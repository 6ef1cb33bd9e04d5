package lbswim

import (
	"errors"
	"testing"
)

func TestElemVectorBounds(t *testing.T) {
	t.Parallel()

	arr := mustNew[float64](t, Shape{4}, 3, WithMaxLanes(2))
	vec := arr.Elem(2)

	if vec.Len() != 3 {
		t.Fatalf("Len = %d, want 3", vec.Len())
	}

	for _, i := range []int{3, 4, -1} {
		_, err := vec.Get(i)

		var be *BoundsError
		if !errors.As(err, &be) {
			t.Fatalf("Get(%d) error = %v, want *BoundsError", i, err)
		}

		if be.Index != i || be.Len != 3 {
			t.Fatalf("BoundsError = %+v", be)
		}

		if !errors.Is(err, ErrBounds) {
			t.Fatalf("Get(%d) error does not wrap ErrBounds", i)
		}

		if err := vec.Set(i, 1); !errors.Is(err, ErrBounds) {
			t.Fatalf("Set(%d) error = %v, want ErrBounds", i, err)
		}
	}
}

func TestElemVectorStride(t *testing.T) {
	t.Parallel()

	arr := mustNew[int](t, Shape{5}, 2, WithMaxLanes(4))
	vec := arr.Elem(3)

	for d := range 2 {
		if err := vec.Set(d, 10+d); err != nil {
			t.Fatalf("Set(%d): %v", d, err)
		}
	}

	raw := arr.Raw()
	if raw[3] != 10 || raw[3+arr.FieldStride()] != 11 {
		t.Fatalf("components not strided by %d: %v", arr.FieldStride(), raw)
	}

	c := vec.Const()
	if got, _ := c.Get(1); got != 11 || c.Len() != 2 {
		t.Fatalf("const Get(1) = %d", got)
	}
}
