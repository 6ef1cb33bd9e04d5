package gpu

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/WhiteTshirtXI/lbswim"
)

// SharedArray mirrors the whole storage of an owning array, padding included,
// into a device buffer with the same explicit synchronisation model as Shared.
type SharedArray[T lbswim.Scalar] struct {
	arr    *lbswim.Array[T]
	device Buffer
}

// NewSharedArray allocates the device copy of arr's storage and uploads it.
func NewSharedArray[T lbswim.Scalar](ctx Context, arr *lbswim.Array[T]) (*SharedArray[T], error) {
	if !arr.IsOwner() {
		return nil, lbswim.ErrNotOwner
	}

	var zero T
	size := len(arr.Raw()) * int(unsafe.Sizeof(zero))

	dev, err := ctx.NewBuffer(size)
	if err != nil {
		return nil, fmt.Errorf("%w: device copy of %v array: %w", lbswim.ErrAlloc, arr.Shape(), err)
	}

	s := &SharedArray[T]{arr: arr, device: dev}
	if err := s.SyncToDevice(); err != nil {
		_ = dev.Close()
		return nil, err
	}

	return s, nil
}

// Host returns the host array.
func (s *SharedArray[T]) Host() *lbswim.Array[T] {
	return s.arr
}

// Device returns the device copy of the storage.
func (s *SharedArray[T]) Device() Buffer {
	return s.device
}

func (s *SharedArray[T]) bytes() []byte {
	raw := s.arr.Raw()
	if len(raw) == 0 {
		return nil
	}

	return asBytes(&raw[0], len(raw))
}

// SyncToDevice copies the host storage to the device.
func (s *SharedArray[T]) SyncToDevice() error {
	if s.device == nil {
		return ErrClosed
	}
	if s.arr.Released() {
		return lbswim.ErrReleased
	}

	log().Debug("array sync to device", zap.Stringer("shape", s.arr.Shape()), zap.Int("bytes", s.device.Len()))

	return s.device.Upload(s.bytes())
}

// SyncToHost copies the device storage to the host.
func (s *SharedArray[T]) SyncToHost() error {
	if s.device == nil {
		return ErrClosed
	}
	if s.arr.Released() {
		return lbswim.ErrReleased
	}

	log().Debug("array sync to host", zap.Stringer("shape", s.arr.Shape()), zap.Int("bytes", s.device.Len()))

	return s.device.Download(s.bytes())
}

// Close releases the device copy. The host array is unaffected.
func (s *SharedArray[T]) Close() error {
	if s.device == nil {
		return nil
	}

	err := s.device.Close()
	s.device = nil

	return err
}
