package optim

import (
	"context"
	"testing"

	"github.com/san-kum/ringsim/internal/config"
	"github.com/san-kum/ringsim/internal/experiment"
)

func contrastExperiment(params map[string]float64) (*experiment.Experiment, error) {
	cfg := config.DefaultConfig()
	cfg.Neurons = 16
	cfg.Steps = 10
	for k, v := range params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	return experiment.New("grid", cfg, nil, "peak_activity"), nil
}

func TestGridSearch_Minimize(t *testing.T) {
	g, err := NewGridSearch([]string{"contrast"}, [][]float64{{2, 1, 0}})
	if err != nil {
		t.Fatal(err)
	}

	res, err := g.Search(context.Background(), contrastExperiment, "peak_activity")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if res.Params["contrast"] != 0 || res.Value != 0 {
		t.Errorf("expected contrast 0 with peak 0, got %+v", res)
	}
	if res.Evaluated != 3 {
		t.Errorf("expected 3 evaluations, got %d", res.Evaluated)
	}
}

func TestGridSearch_Maximize(t *testing.T) {
	g, err := NewGridSearch([]string{"contrast", "epsilon"}, [][]float64{{1, 2}, {0.5, 0.9}})
	if err != nil {
		t.Fatal(err)
	}
	if g.Points() != 4 {
		t.Errorf("expected 4 points, got %d", g.Points())
	}

	res, err := g.Maximize().Search(context.Background(), contrastExperiment, "peak_activity")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if res.Params["contrast"] != 2 {
		t.Errorf("expected contrast 2, got %v", res.Params)
	}
}

func TestGridSearch_SkipsFailures(t *testing.T) {
	g, _ := NewGridSearch([]string{"beta"}, [][]float64{{-1, 0.1}})

	res, err := g.Search(context.Background(), contrastExperiment, "peak_activity")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if res.Failed != 1 || res.Evaluated != 1 || res.Params["beta"] != 0.1 {
		t.Errorf("unexpected result %+v", res)
	}

	g, _ = NewGridSearch([]string{"beta"}, [][]float64{{-1}})
	if _, err := g.Search(context.Background(), contrastExperiment, "peak_activity"); err == nil {
		t.Error("expected error when every point fails")
	}
}

func TestGridSearch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, _ := NewGridSearch([]string{"contrast"}, [][]float64{{1}})
	if _, err := g.Search(ctx, contrastExperiment, "peak_activity"); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewGridSearch_Invalid(t *testing.T) {
	if _, err := NewGridSearch([]string{"a", "b"}, [][]float64{{1}}); err == nil {
		t.Error("expected error for mismatched ranges")
	}
	if _, err := NewGridSearch([]string{"a"}, [][]float64{{}}); err == nil {
		t.Error("expected error for empty range")
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		values  []float64
		wantErr bool
	}{
		{"j2=100:120:3", "j2", []float64{100, 110, 120}, false},
		{"epsilon=0.4", "epsilon", []float64{0.4}, false},
		{"j2=1:2", "", nil, true},
		{"j2", "", nil, true},
		{"=1", "", nil, true},
		{"j2=a:2:3", "", nil, true},
		{"j2=1:2:0", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, values, err := ParseRange(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if name != tt.name || len(values) != len(tt.values) {
				t.Fatalf("got %s %v, want %s %v", name, values, tt.name, tt.values)
			}
			for i := range values {
				if values[i] != tt.values[i] {
					t.Errorf("value %d = %v, want %v", i, values[i], tt.values[i])
				}
			}
		})
	}
}
