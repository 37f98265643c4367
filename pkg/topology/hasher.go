package topology

import "math"

// DefaultTolerance is the per-axis quantization step used when no
// tolerance is configured.
const DefaultTolerance = 1e-6

// HashKey identifies a welded vertex. Two positions with equal keys are
// treated as the same vertex.
type HashKey struct {
	X, Y, Z int64
}

// VertexHasher maps a position to a HashKey. Implementations must be pure:
// the same position always yields the same key.
type VertexHasher interface {
	Hash(x, y, z float32) HashKey
}

// nanCell is the cell every NaN coordinate lands in. Finite values that
// do not saturate are at least 1024 above math.MinInt64, so nothing else
// can share it.
const nanCell = math.MinInt64 + 1

// Quantizer hashes positions by snapping each axis to a grid of
// Tolerance-sized cells.
type Quantizer struct {
	Tolerance float64
}

// Hash implements VertexHasher.
func (q Quantizer) Hash(x, y, z float32) HashKey {
	step := q.Tolerance
	if !(step > 0) {
		step = DefaultTolerance
	}
	return HashKey{
		X: quantize(float64(x), step),
		Y: quantize(float64(y), step),
		Z: quantize(float64(z), step),
	}
}

// quantize rounds v/step to the nearest integer cell, saturating at the
// int64 bounds. Signed zeros share a cell.
func quantize(v, step float64) int64 {
	if math.IsNaN(v) {
		return nanCell
	}
	c := math.Round(v / step)
	switch {
	case c >= math.MaxInt64:
		return math.MaxInt64
	case c <= math.MinInt64:
		return math.MinInt64
	case c == 0:
		return 0
	}
	return int64(c)
}
