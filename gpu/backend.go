package gpu

import (
	"sync"

	"go.uber.org/zap"
)

// Backend is implemented by GPU backends (CUDA, OpenCL, WebGPU, etc.).
// It is responsible for device discovery and context creation.
type Backend interface {
	Info() BackendInfo
	Available() bool
	Devices() ([]DeviceInfo, error)
	NewContext(deviceIndex int) (Context, error)
}

// Context represents a backend-specific GPU context tied to a device.
type Context interface {
	Device() DeviceInfo
	// NewBuffer allocates a device buffer of size bytes.
	NewBuffer(size int) (Buffer, error)
	Close() error
}

// Buffer is a device buffer. Transfers are synchronous: when Upload or
// Download returns, the copy has completed.
type Buffer interface {
	Len() int
	// Upload copies Len() bytes from host to device.
	Upload(src []byte) error
	// Download copies Len() bytes from device to host.
	Download(dst []byte) error
	Close() error
}

var (
	backendMu sync.RWMutex
	backend   Backend
)

// RegisterBackend registers a GPU backend. Passing nil clears the backend.
func RegisterBackend(b Backend) {
	backendMu.Lock()
	backend = b
	backendMu.Unlock()

	if b != nil {
		info := b.Info()
		log().Debug("gpu backend registered", zap.String("backend", info.Name), zap.String("version", info.Version))
	}
}

// CurrentBackendInfo reports the currently registered backend, if any.
func CurrentBackendInfo() (BackendInfo, bool) {
	backendMu.RLock()
	b := backend
	backendMu.RUnlock()
	if b == nil {
		return BackendInfo{}, false
	}
	return b.Info(), true
}

func getBackend() Backend {
	backendMu.RLock()
	b := backend
	backendMu.RUnlock()
	return b
}

// Open creates a device context on the registered backend.
func Open(opts Options) (Context, error) {
	b := getBackend()
	if b == nil {
		return nil, ErrNoBackend
	}

	if !b.Available() {
		return nil, ErrBackendUnavailable
	}

	ctx, err := b.NewContext(opts.DeviceIndex)
	if err != nil {
		return nil, err
	}

	log().Debug("gpu context opened",
		zap.String("backend", b.Info().Name),
		zap.String("device", ctx.Device().Name),
		zap.Int("index", opts.DeviceIndex))

	return ctx, nil
}
