package metrics

import "github.com/san-kum/ringsim/internal/network"

// MeanActivity averages activity over every neuron and observed step.
type MeanActivity struct {
	sum     float64
	samples int
}

func NewMeanActivity() *MeanActivity { return &MeanActivity{} }

func (a *MeanActivity) Name() string { return "mean_activity" }

func (a *MeanActivity) Observe(m network.Vector, step int) {
	for _, v := range m {
		a.sum += v
	}
	a.samples += len(m)
}

func (a *MeanActivity) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *MeanActivity) Reset() {
	a.sum = 0
	a.samples = 0
}

// PeakActivity is the largest single-neuron activity seen.
type PeakActivity struct {
	peak float64
	seen bool
}

func NewPeakActivity() *PeakActivity { return &PeakActivity{} }

func (p *PeakActivity) Name() string { return "peak_activity" }

func (p *PeakActivity) Observe(m network.Vector, step int) {
	if len(m) == 0 {
		return
	}
	if v := m.Max(); !p.seen || v > p.peak {
		p.peak = v
		p.seen = true
	}
}

func (p *PeakActivity) Value() float64 { return p.peak }

func (p *PeakActivity) Reset() {
	p.peak = 0
	p.seen = false
}

// ActiveFraction is the share of neurons above level in the last step.
type ActiveFraction struct {
	level    float64
	fraction float64
}

func NewActiveFraction(level float64) *ActiveFraction {
	return &ActiveFraction{level: level}
}

func (a *ActiveFraction) Name() string { return "active_fraction" }

func (a *ActiveFraction) Observe(m network.Vector, step int) {
	if len(m) == 0 {
		a.fraction = 0
		return
	}
	active := 0
	for _, v := range m {
		if v > a.level {
			active++
		}
	}
	a.fraction = float64(active) / float64(len(m))
}

func (a *ActiveFraction) Value() float64 { return a.fraction }

func (a *ActiveFraction) Reset() { a.fraction = 0 }
