// Package gpu mirrors host objects into device memory.
//
// A Backend (CUDA, OpenCL, WebGPU, or the CPU-backed mock) is registered at
// runtime and opened into a device Context that allocates Buffers. Shared and
// SharedArray keep one logical value resident in both host and device memory;
// the two copies may diverge until SyncToDevice or SyncToHost is called.
package gpu
