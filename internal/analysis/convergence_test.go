package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ringsim/internal/network"
	"github.com/san-kum/ringsim/internal/sim"
)

func TestDeltas(t *testing.T) {
	traj := []network.Vector{{0, 0}, {3, 4}, {3, 4}}
	got := Deltas(traj)
	if len(got) != 2 || got[0] != 5 || got[1] != 0 {
		t.Errorf("Deltas = %v, want [5 0]", got)
	}
	if len(Deltas(nil)) != 0 {
		t.Error("expected no deltas for empty trajectory")
	}
}

func TestSettlingStep(t *testing.T) {
	tests := []struct {
		name string
		traj []network.Vector
		step int
		ok   bool
	}{
		{"empty", nil, 0, false},
		{"single", []network.Vector{{1}}, 0, true},
		{"settles", []network.Vector{{0}, {1}, {1.5}, {1.5}, {1.5}}, 2, true},
		{"still moving", []network.Vector{{0}, {1}, {2}}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step, ok := SettlingStep(tt.traj, 1e-9)
			if step != tt.step || ok != tt.ok {
				t.Errorf("SettlingStep = (%d, %v), want (%d, %v)", step, ok, tt.step, tt.ok)
			}
		})
	}
}

func TestFixedPoint_UnconnectedRunApproaches(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Steps = 200

	result, err := sim.Run(make(network.Vector, cfg.Neurons), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	angles, _ := network.PreferredAngles(cfg.Neurons)
	fp, err := FixedPoint(cfg.Stimulus.Drive(angles), cfg.Neuron)
	if err != nil {
		t.Fatal(err)
	}

	final := result.Final()
	for i := range fp {
		if math.Abs(final[i]-fp[i]) > 1e-9 {
			t.Errorf("neuron %d: final %v, fixed point %v", i, final[i], fp[i])
		}
	}

	if _, ok := SettlingStep(result.Trajectory, 1e-6); !ok {
		t.Error("expected unconnected run to settle")
	}
}

func TestFixedPoint_InvalidNeuron(t *testing.T) {
	_, err := FixedPoint(network.Vector{1}, network.Neuron{Tau: -1, Beta: 0.1})
	if !errors.Is(err, network.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestTuningProfile(t *testing.T) {
	angles := network.Vector{-1, 0, 1}
	traj := []network.Vector{{0, 0, 0}, {0.1, 0.5, 0.1}}

	points, err := TuningProfile(traj, angles, 1)
	if err != nil {
		t.Fatal(err)
	}
	if points[1].Angle != 0 || points[1].Activity != 0.5 {
		t.Errorf("unexpected point %+v", points[1])
	}

	if _, err := TuningProfile(traj, angles, 2); !errors.Is(err, network.ErrInvalidDimension) {
		t.Errorf("expected ErrInvalidDimension, got %v", err)
	}
}
