package metrics

import (
	"math"

	"github.com/san-kum/ringsim/internal/network"
)

// BumpOrientation decodes the orientation represented by the last observed
// activity with a population vector on the doubled angle:
// ½·atan2(Σ m_i sin 2θ_i, Σ m_i cos 2θ_i). A silent population decodes to 0.
type BumpOrientation struct {
	sin2, cos2 network.Vector
	value      float64
}

func NewBumpOrientation(angles network.Vector) *BumpOrientation {
	b := &BumpOrientation{
		sin2: make(network.Vector, len(angles)),
		cos2: make(network.Vector, len(angles)),
	}
	for i, theta := range angles {
		b.sin2[i], b.cos2[i] = math.Sincos(2 * theta)
	}
	return b
}

func (b *BumpOrientation) Name() string { return "bump_orientation" }

func (b *BumpOrientation) Observe(m network.Vector, step int) {
	b.value = Decode(m, b.sin2, b.cos2)
}

func (b *BumpOrientation) Value() float64 { return b.value }

func (b *BumpOrientation) Reset() { b.value = 0 }

// Decode returns the population-vector orientation of m, in [-π/2, π/2].
// Both ends are reachable: atan2 rounds to ±π for tiny y with negative x.
func Decode(m, sin2, cos2 network.Vector) float64 {
	var y, x float64
	for i, v := range m {
		if i >= len(sin2) {
			break
		}
		y += v * sin2[i]
		x += v * cos2[i]
	}
	if x == 0 && y == 0 {
		return 0
	}
	return math.Atan2(y, x) / 2
}
