package rpeg

import (
	"errors"
	"fmt"
)

// ErrChromaIndex is returned for a chroma index outside [0,15].
var ErrChromaIndex = errors.New("rpeg: chroma index out of range")

// chromaTable holds the representative Pb/Pr value of each 4-bit index.
// Values are denser near zero, where most natural chroma sits.
var chromaTable = [16]float32{
	-0.35, -0.20, -0.15, -0.10, -0.077, -0.055, -0.033, -0.011,
	0.011, 0.033, 0.055, 0.077, 0.10, 0.15, 0.20, 0.35,
}

// IndexOfChroma returns the index of the table entry nearest to x. Ties go
// to the lower index.
func IndexOfChroma(x float32) uint64 {
	x = min(max(x, -0.5), 0.5)
	best := 0
	bestDist := float32(2)
	for i, v := range chromaTable {
		d := x - v
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint64(best)
}

// ChromaOfIndex returns the representative chroma value of index i.
func ChromaOfIndex(i uint64) (float32, error) {
	if i >= uint64(len(chromaTable)) {
		return 0, fmt.Errorf("%w: %d", ErrChromaIndex, i)
	}
	return chromaTable[i], nil
}
