package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/ringsim/internal/network"
)

func TestSpectrum_Constant(t *testing.T) {
	m := network.Vector{2, 2, 2, 2, 2, 2, 2, 2}
	s := Spectrum(m)

	if len(s) != 5 {
		t.Fatalf("expected 5 modes, got %d", len(s))
	}
	if math.Abs(s[0]-2) > 1e-12 {
		t.Errorf("mode 0 = %v, want 2", s[0])
	}
	for k := 1; k < len(s); k++ {
		if s[k] > 1e-12 {
			t.Errorf("mode %d = %v, want 0", k, s[k])
		}
	}
	if Selectivity(m) > 1e-12 {
		t.Errorf("flat profile should have zero selectivity, got %v", Selectivity(m))
	}
}

func TestSpectrum_FirstHarmonic(t *testing.T) {
	n := 16
	m := make(network.Vector, n)
	for i := range m {
		m[i] = 1 + 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}

	s := Spectrum(m)
	if math.Abs(s[1]-0.25) > 1e-9 {
		t.Errorf("mode 1 = %v, want 0.25", s[1])
	}
	if math.Abs(Selectivity(m)-0.25) > 1e-9 {
		t.Errorf("selectivity = %v, want 0.25", Selectivity(m))
	}
}

func TestSelectivity_Silent(t *testing.T) {
	if got := Selectivity(make(network.Vector, 10)); got != 0 {
		t.Errorf("expected 0 for silent population, got %v", got)
	}
	if got := Selectivity(nil); got != 0 {
		t.Errorf("expected 0 for empty population, got %v", got)
	}
}
