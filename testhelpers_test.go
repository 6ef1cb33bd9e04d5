package lbswim

import (
	"errors"
	"testing"
)

// Shared test helper functions used across multiple test files

func assertPanicsWith(t *testing.T, sentinel error, fn func()) {
	t.Helper()

	defer func() {
		t.Helper()

		r := recover()
		if r == nil {
			t.Fatalf("expected panic wrapping %v", sentinel)
		}

		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %v (%T) is not an error", r, r)
		}

		if !errors.Is(err, sentinel) {
			t.Fatalf("panic %v does not wrap %v", err, sentinel)
		}
	}()

	fn()
}

func mustNew[T Scalar](t *testing.T, shape Shape, nElem int, opts ...Option) *Array[T] {
	t.Helper()

	arr, err := New[T](shape, nElem, opts...)
	if err != nil {
		t.Fatalf("New(%v, %d) failed: %v", shape, nElem, err)
	}

	return arr
}
