package player

import "math"

// volume levels are stored as float64 bits so they can live in an atomic.Uint64

func volumeBits(percent float64) uint64 {
	return math.Float64bits(percent)
}

func volumeFromBits(bits uint64) float64 {
	return math.Float64frombits(bits)
}
