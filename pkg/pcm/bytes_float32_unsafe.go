package pcm

import (
	"unsafe"
)

// convertBytesToFloat32Slice reinterprets b as little-endian float32
// samples without copying; b must not be mutated while the result is
// in use.
func convertBytesToFloat32Slice(b []byte) []float32 {
	ptr := unsafe.SliceData(b)
	return unsafe.Slice((*float32)(unsafe.Pointer(ptr)), len(b)/4)
}
