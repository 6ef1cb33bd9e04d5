package gpu

import (
	"fmt"
	"reflect"
	"unsafe"

	"go.uber.org/zap"

	"github.com/WhiteTshirtXI/lbswim"
)

// Shared keeps one value of T resident on the host and on a device.
//
// The host copy is the identity of the object; the device copy is derived
// from it and released by Close. The two copies are only brought into
// agreement by SyncToDevice and SyncToHost. Neither call is safe to run
// concurrently with access to the host copy.
type Shared[T any] struct {
	host   *T
	device Buffer
	name   string
}

// NewShared builds the host copy from v, allocates the device copy on ctx and
// uploads it so both start equal. T must be trivially copyable.
func NewShared[T any](ctx Context, v T) (*Shared[T], error) {
	t := reflect.TypeFor[T]()
	if !triviallyCopyable(t) {
		return nil, fmt.Errorf("%w: %v", ErrNotCopyable, t)
	}

	host := new(T)
	*host = v

	dev, err := ctx.NewBuffer(int(unsafe.Sizeof(v)))
	if err != nil {
		return nil, fmt.Errorf("%w: device copy of %v: %w", lbswim.ErrAlloc, t, err)
	}

	s := &Shared[T]{host: host, device: dev, name: t.String()}
	if err := s.SyncToDevice(); err != nil {
		_ = dev.Close()
		return nil, err
	}

	return s, nil
}

// Host returns the host copy. Field access through it is the usual way to read
// and modify the object.
func (s *Shared[T]) Host() *T {
	return s.host
}

// Value returns a copy of the host value.
func (s *Shared[T]) Value() T {
	return *s.host
}

// Device returns the device copy.
func (s *Shared[T]) Device() Buffer {
	return s.device
}

// DeviceValue downloads the device copy without touching the host copy.
func (s *Shared[T]) DeviceValue() (T, error) {
	var v T
	if s.device == nil {
		return v, ErrClosed
	}

	if err := s.device.Download(asBytes(&v, 1)); err != nil {
		return v, err
	}

	return v, nil
}

// SyncToDevice copies the host value to the device.
func (s *Shared[T]) SyncToDevice() error {
	if s.device == nil {
		return ErrClosed
	}

	log().Debug("sync to device", zap.String("type", s.name), zap.Int("bytes", s.device.Len()))

	return s.device.Upload(asBytes(s.host, 1))
}

// SyncToHost copies the device value to the host.
func (s *Shared[T]) SyncToHost() error {
	if s.device == nil {
		return ErrClosed
	}

	log().Debug("sync to host", zap.String("type", s.name), zap.Int("bytes", s.device.Len()))

	return s.device.Download(asBytes(s.host, 1))
}

// Close releases the device copy. The host copy remains valid.
func (s *Shared[T]) Close() error {
	if s.device == nil {
		return nil
	}

	err := s.device.Close()
	s.device = nil

	return err
}
