package sqlite

import (
	"encoding/binary"
	"math"
)

// Embeddings are stored as little-endian IEEE 754 float32 blobs.
const float32Size = 4

func float32SliceToBytes(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	buf := make([]byte, 0, len(vec)*float32Size)
	for _, f := range vec {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice ignores a trailing partial value; callers check
// validBlob first.
func bytesToFloat32Slice(blob []byte) []float32 {
	n := len(blob) / float32Size
	if n == 0 {
		return nil
	}
	vec := make([]float32, n)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*float32Size:]))
	}
	return vec
}

func validBlob(blob []byte) bool {
	return len(blob)%float32Size == 0
}
