package gpu

import (
	"fmt"
	"sync/atomic"
)

// MockBackend is a CPU-backed GPU backend for development and tests.
// Device buffers live in ordinary host memory but are separate from the host
// objects they mirror, so divergence and synchronisation behave as on a device.
type MockBackend struct {
	device    DeviceInfo
	allocated atomic.Int64
	limit     int64
}

// NewMockBackend returns a mock backend with a single fake device.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		device: DeviceInfo{
			Name:       "MockGPU",
			Vendor:     "lbswim",
			Driver:     "mock",
			MemoryMB:   0,
			ComputeCap: "cpu",
		},
	}
}

// WithMemoryLimit caps the total bytes the mock device will allocate.
// A limit of 0 means unlimited.
func (b *MockBackend) WithMemoryLimit(bytes int64) *MockBackend {
	b.limit = bytes
	b.device.MemoryMB = int(bytes >> 20)
	return b
}

// Allocated returns the number of bytes held by live mock buffers.
func (b *MockBackend) Allocated() int64 {
	return b.allocated.Load()
}

func (b *MockBackend) Info() BackendInfo {
	return BackendInfo{
		Name:        "mock",
		Version:     "0.1",
		Description: "CPU-backed mock GPU backend",
	}
}

func (b *MockBackend) Available() bool {
	return true
}

func (b *MockBackend) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{b.device}, nil
}

func (b *MockBackend) NewContext(deviceIndex int) (Context, error) {
	if deviceIndex != 0 {
		return nil, fmt.Errorf("mock backend: device index %d out of range", deviceIndex)
	}
	return &mockContext{backend: b}, nil
}

// RegisterMockBackend registers the mock backend as the active backend.
func RegisterMockBackend() *MockBackend {
	b := NewMockBackend()
	RegisterBackend(b)
	return b
}

type mockContext struct {
	backend *MockBackend
	closed  atomic.Bool
}

func (c *mockContext) Device() DeviceInfo {
	return c.backend.device
}

func (c *mockContext) NewBuffer(size int) (Buffer, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if size < 0 {
		return nil, ErrInvalidLength
	}

	b := c.backend
	if total := b.allocated.Add(int64(size)); b.limit > 0 && total > b.limit {
		b.allocated.Add(-int64(size))
		return nil, fmt.Errorf("mock backend: out of device memory (%d of %d bytes in use)", total-int64(size), b.limit)
	}

	return &mockBuffer{backend: b, data: make([]byte, size)}, nil
}

func (c *mockContext) Close() error {
	c.closed.Store(true)
	return nil
}

type mockBuffer struct {
	backend *MockBackend
	data    []byte
	closed  bool
}

func (b *mockBuffer) Len() int {
	return len(b.data)
}

func (b *mockBuffer) Upload(src []byte) error {
	if b.closed {
		return ErrClosed
	}
	if len(src) < len(b.data) {
		return ErrLengthMismatch
	}
	copy(b.data, src)
	return nil
}

func (b *mockBuffer) Download(dst []byte) error {
	if b.closed {
		return ErrClosed
	}
	if len(dst) < len(b.data) {
		return ErrLengthMismatch
	}
	copy(dst, b.data)
	return nil
}

func (b *mockBuffer) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.backend.allocated.Add(-int64(len(b.data)))
	b.data = nil
	return nil
}
