package gpu

import (
	"reflect"
	"unsafe"
)

// triviallyCopyable reports whether values of t can be moved to a device as
// raw bytes: no pointers or references anywhere in the representation.
func triviallyCopyable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return triviallyCopyable(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !triviallyCopyable(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// asBytes views n values starting at p as raw bytes.
func asBytes[T any](p *T, n int) []byte {
	var zero T
	size := int(unsafe.Sizeof(zero)) * n
	if size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), size)
}
