package gpu

// DeviceInfo describes a GPU device.
type DeviceInfo struct {
	Name       string
	Vendor     string
	Driver     string
	MemoryMB   int
	ComputeCap string
}

// BackendInfo describes a backend implementation.
type BackendInfo struct {
	Name        string
	Version     string
	Description string
}

// Options controls how a device context is opened.
type Options struct {
	// DeviceIndex selects which device to use (0 = default).
	DeviceIndex int
}
