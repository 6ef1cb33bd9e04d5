package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Features describes the CPU capabilities relevant to lane width selection.
type Features struct {
	HasSSE2      bool
	HasAVX       bool
	HasAVX2      bool
	HasAVX512    bool
	HasNEON      bool
	ForceGeneric bool
	Architecture string
}

// DetectFeatures reports the available CPU features for the current process.
//
// golang.org/x/sys/cpu exposes the x86 and arm64 flag sets on every platform;
// flags for a foreign architecture are simply false.
func DetectFeatures() Features {
	return Features{
		HasSSE2:      cpu.X86.HasSSE2,
		HasAVX:       cpu.X86.HasAVX,
		HasAVX2:      cpu.X86.HasAVX2,
		HasAVX512:    cpu.X86.HasAVX512,
		HasNEON:      cpu.ARM64.HasASIMD,
		Architecture: runtime.GOARCH,
	}
}

// VectorBytes returns the width in bytes of the widest vector register
// usable with these features. Generic code gets a single 8-byte word.
func (f Features) VectorBytes() int {
	switch {
	case f.ForceGeneric:
		return 8
	case f.HasAVX512:
		return 64
	case f.HasAVX2, f.HasAVX:
		return 32
	case f.HasSSE2, f.HasNEON:
		return 16
	default:
		return 8
	}
}

// String returns a short name for the widest vector extension.
func (f Features) String() string {
	switch {
	case f.ForceGeneric:
		return "generic"
	case f.HasAVX512:
		return "avx512"
	case f.HasAVX2:
		return "avx2"
	case f.HasAVX:
		return "avx"
	case f.HasSSE2:
		return "sse2"
	case f.HasNEON:
		return "neon"
	default:
		return "generic"
	}
}
