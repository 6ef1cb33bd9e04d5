package gpu

import "errors"

var (
	// ErrNoBackend is returned when no GPU backend is registered.
	ErrNoBackend = errors.New("lbswim/gpu: no backend registered")

	// ErrBackendUnavailable is returned when the backend is registered but not available
	// on the current system (e.g., no device, driver missing).
	ErrBackendUnavailable = errors.New("lbswim/gpu: backend unavailable")

	// ErrInvalidLength is returned for negative buffer sizes.
	ErrInvalidLength = errors.New("lbswim/gpu: invalid length")

	// ErrLengthMismatch is returned when a host slice is shorter than the device buffer.
	ErrLengthMismatch = errors.New("lbswim/gpu: length mismatch")

	// ErrNotCopyable is returned for types that cannot be copied bytewise to a
	// device (they contain pointers, slices, maps, strings, interfaces, ...).
	ErrNotCopyable = errors.New("lbswim/gpu: type is not trivially copyable")

	// ErrClosed is returned when a mirror or buffer is used after Close.
	ErrClosed = errors.New("lbswim/gpu: closed")
)
