package topology

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantizerWeldsWithinTolerance(t *testing.T) {
	q := Quantizer{Tolerance: 1e-3}

	assert.Equal(t, q.Hash(1, 2, 3), q.Hash(1.0001, 2, 2.9999))
	assert.NotEqual(t, q.Hash(1, 2, 3), q.Hash(1.01, 2, 3))
	assert.NotEqual(t, q.Hash(1, 2, 3), q.Hash(2, 1, 3))
}

func TestQuantizerSignedZero(t *testing.T) {
	q := Quantizer{}
	negZero := float32(math.Copysign(0, -1))

	assert.Equal(t, q.Hash(0, 0, 0), q.Hash(negZero, negZero, negZero))
	assert.Equal(t, HashKey{}, q.Hash(negZero, 0, negZero))
}

func TestQuantizerNonFinite(t *testing.T) {
	q := Quantizer{}
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	assert.Equal(t, q.Hash(nan, 0, 0), q.Hash(nan, 0, 0))
	assert.Equal(t, int64(math.MaxInt64), q.Hash(inf, 0, 0).X)
	assert.Equal(t, int64(math.MinInt64), q.Hash(-inf, 0, 0).X)
	assert.NotEqual(t, q.Hash(nan, 0, 0), q.Hash(-inf, 0, 0))
	assert.Equal(t, int64(math.MaxInt64), q.Hash(math.MaxFloat32, 0, 0).X)
}

func TestQuantizerDefaultTolerance(t *testing.T) {
	zero := Quantizer{}
	neg := Quantizer{Tolerance: -1}
	def := Quantizer{Tolerance: DefaultTolerance}

	assert.Equal(t, def.Hash(0.5, 0.25, 1), zero.Hash(0.5, 0.25, 1))
	assert.Equal(t, def.Hash(0.5, 0.25, 1), neg.Hash(0.5, 0.25, 1))
	assert.Equal(t, HashKey{X: 500000, Y: 250000, Z: 1000000}, def.Hash(0.5, 0.25, 1))
}
