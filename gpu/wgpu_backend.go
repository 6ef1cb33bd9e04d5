//go:build wgpu

package gpu

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/openfluke/webgpu/wgpu"
	"go.uber.org/zap"
)

// copyAlign is the WebGPU alignment for buffer sizes and copy lengths.
const copyAlign = 4

// readbackTimeout bounds how long Download waits for a staging map.
const readbackTimeout = 2 * time.Second

// WebGPUBackend runs on any adapter exposed by wgpu-native. It is enabled with
// the "wgpu" build tag.
type WebGPUBackend struct {
	once     sync.Once
	initErr  error
	instance *wgpu.Instance
	adapters []*wgpu.Adapter
}

// RegisterWebGPUBackend registers the WebGPU backend.
func RegisterWebGPUBackend() {
	RegisterBackend(&WebGPUBackend{})
}

func (b *WebGPUBackend) Info() BackendInfo {
	return BackendInfo{
		Name:        "webgpu",
		Version:     "wgpu-native",
		Description: "WebGPU backend (storage buffers, staged readback)",
	}
}

func (b *WebGPUBackend) init() error {
	b.once.Do(func() {
		b.instance = wgpu.CreateInstance(nil)
		if b.instance == nil {
			b.initErr = fmt.Errorf("%w: failed to create WebGPU instance", ErrBackendUnavailable)
			return
		}

		b.adapters = b.instance.EnumerateAdapters(nil)
		if len(b.adapters) == 0 {
			adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
				PowerPreference: wgpu.PowerPreferenceHighPerformance,
			})
			if err != nil {
				b.initErr = fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
				return
			}
			b.adapters = []*wgpu.Adapter{adapter}
		}
	})

	return b.initErr
}

func (b *WebGPUBackend) Available() bool {
	return b.init() == nil
}

func (b *WebGPUBackend) Devices() ([]DeviceInfo, error) {
	if err := b.init(); err != nil {
		return nil, err
	}

	devices := make([]DeviceInfo, 0, len(b.adapters))
	for _, a := range b.adapters {
		devices = append(devices, adapterInfo(a))
	}

	return devices, nil
}

func (b *WebGPUBackend) NewContext(deviceIndex int) (Context, error) {
	if err := b.init(); err != nil {
		return nil, err
	}

	if deviceIndex < 0 || deviceIndex >= len(b.adapters) {
		return nil, fmt.Errorf("webgpu backend: device index %d out of range", deviceIndex)
	}

	adapter := b.adapters[deviceIndex]

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("webgpu backend: request device: %w", err)
	}

	return &wgpuContext{
		info:   adapterInfo(adapter),
		device: device,
		queue:  device.GetQueue(),
	}, nil
}

func adapterInfo(a *wgpu.Adapter) DeviceInfo {
	info := a.GetInfo()

	return DeviceInfo{
		Name:       strings.TrimSpace(info.Name),
		Vendor:     strings.TrimSpace(info.VendorName),
		Driver:     strings.TrimSpace(info.DriverDescription),
		ComputeCap: info.AdapterType.String(),
	}
}

type wgpuContext struct {
	info   DeviceInfo
	device *wgpu.Device
	queue  *wgpu.Queue
}

func (c *wgpuContext) Device() DeviceInfo {
	return c.info
}

func (c *wgpuContext) NewBuffer(size int) (Buffer, error) {
	if size < 0 {
		return nil, ErrInvalidLength
	}

	padded := alignUp(size)
	if padded == 0 {
		padded = copyAlign
	}

	buf, err := c.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "lbswim.mirror",
		Size:  uint64(padded),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer: %w", err)
	}

	return &wgpuBuffer{ctx: c, buf: buf, size: size, padded: padded}, nil
}

func (c *wgpuContext) Close() error {
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	return nil
}

type wgpuBuffer struct {
	ctx    *wgpuContext
	buf    *wgpu.Buffer
	size   int
	padded int
}

func (b *wgpuBuffer) Len() int {
	return b.size
}

func (b *wgpuBuffer) Upload(src []byte) error {
	if b.buf == nil {
		return ErrClosed
	}
	if len(src) < b.size {
		return ErrLengthMismatch
	}

	data := src[:b.size]
	if b.size != b.padded {
		data = make([]byte, b.padded)
		copy(data, src[:b.size])
	}

	b.ctx.queue.WriteBuffer(b.buf, 0, data)
	b.ctx.device.Poll(true, nil)

	return nil
}

func (b *wgpuBuffer) Download(dst []byte) error {
	if b.buf == nil {
		return ErrClosed
	}
	if len(dst) < b.size {
		return ErrLengthMismatch
	}

	c := b.ctx
	sizeBytes := uint64(b.padded)

	staging, err := c.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "lbswim.readback",
		Size:  sizeBytes,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create staging buffer: %w", err)
	}
	defer staging.Destroy()

	encoder, err := c.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	encoder.CopyBufferToBuffer(b.buf, 0, staging, 0, sizeBytes)

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command: %w", err)
	}
	c.queue.Submit(cmd)

	done := make(chan struct{})
	var mapErr error

	err = staging.MapAsync(wgpu.MapModeRead, 0, sizeBytes, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("map failed: %v", status)
		}
		close(done)
	})
	if err != nil {
		return fmt.Errorf("MapAsync failed: %w", err)
	}

	timeout := time.After(readbackTimeout)
Loop:
	for {
		c.device.Poll(false, nil)

		select {
		case <-done:
			break Loop
		case <-timeout:
			return fmt.Errorf("readback timed out after %v", readbackTimeout)
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if mapErr != nil {
		return mapErr
	}

	data := staging.GetMappedRange(0, uint(sizeBytes))
	if data == nil {
		return fmt.Errorf("failed to get mapped range")
	}
	copy(dst[:b.size], data[:b.size])
	staging.Unmap()

	log().Debug("webgpu readback", zap.Int("bytes", b.size))

	return nil
}

func (b *wgpuBuffer) Close() error {
	if b.buf == nil {
		return nil
	}
	b.buf.Destroy()
	b.buf = nil
	return nil
}

func alignUp(n int) int {
	return (n + copyAlign - 1) &^ (copyAlign - 1)
}
