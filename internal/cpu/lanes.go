package cpu

import "sync"

var (
	detectOnce sync.Once
	detected   Features
)

// Detected returns the features of the running CPU, detected once per process.
func Detected() Features {
	detectOnce.Do(func() {
		detected = DetectFeatures()
	})

	return detected
}

// LanesFor returns the number of elements of size elemSize that fit into one
// vector register of f. The result is a power of two and at least 1.
func (f Features) LanesFor(elemSize int) int {
	if elemSize <= 0 {
		return 1
	}

	lanes := f.VectorBytes() / elemSize
	if lanes < 1 {
		return 1
	}

	return FloorPow2(lanes)
}

// DefaultLanes is LanesFor on the detected features.
func DefaultLanes(elemSize int) int {
	return Detected().LanesFor(elemSize)
}

// IsPow2 reports whether n is a positive power of two.
func IsPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// FloorPow2 returns the largest power of two not greater than n (n >= 1).
func FloorPow2(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}

	return p
}

// RoundUp rounds n up to the next multiple of m (m >= 1).
func RoundUp(n, m int) int {
	if n <= 0 {
		return 0
	}

	return m * ((n-1)/m + 1)
}
