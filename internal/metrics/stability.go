package metrics

import (
	"math"

	"github.com/san-kum/ringsim/internal/network"
)

// Stability is the fraction of steps in which every neuron stayed within
// [-threshold, threshold]. The registry sets threshold to τ: the leaky
// integrator m' = m + f(h) - m/τ with f in [0, 1] and τ >= 1 keeps activity
// started in [0, τ] inside [0, τ], so a violation means the run left that ceiling.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(m network.Vector, step int) {
	s.samples++
	for _, val := range m {
		if math.Abs(val) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
