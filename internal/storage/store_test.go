package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/ringsim/internal/config"
	"github.com/san-kum/ringsim/internal/network"
	"github.com/san-kum/ringsim/internal/sim"
)

func runConfig(t *testing.T, cfg *config.Config) *sim.Result {
	t.Helper()
	result, err := sim.Run(cfg.InitialActivity(), cfg.SimConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Neurons = 6
	cfg.Steps = 4
	result := runConfig(t, cfg)
	result.Metrics["peak_activity"] = 1.5

	runID, err := st.Save("unconnected", cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "unconnected_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Config != *cfg {
		t.Errorf("config not preserved: %+v", meta.Config)
	}
	if meta.Steps != 4 {
		t.Errorf("expected 4 steps, got %d", meta.Steps)
	}
	if meta.Metrics["peak_activity"] != 1.5 {
		t.Errorf("expected peak 1.5, got %f", meta.Metrics["peak_activity"])
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(traj) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(traj))
	}
	for k := range traj {
		if len(traj[k]) != 6 {
			t.Fatalf("step %d has %d neurons", k, len(traj[k]))
		}
		for i := range traj[k] {
			if traj[k][i] != result.Trajectory[k][i] {
				t.Errorf("step %d neuron %d: %v != %v", k, i, traj[k][i], result.Trajectory[k][i])
			}
		}
	}
}

func TestStoreEmptyTrajectory(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Steps = 0
	runID, err := st.Save("empty", cfg, runConfig(t, cfg))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(traj) != 0 {
		t.Errorf("expected empty trajectory, got %d steps", len(traj))
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Steps = 2
	first, err := st.Save("a", cfg, runConfig(t, cfg))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save("b", cfg, runConfig(t, cfg))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("runs not in save order: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	runID, err := st.Save("test", cfg, runConfig(t, cfg))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "activity.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExportJSON(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Neurons = 3
	cfg.Steps = 2
	result := runConfig(t, cfg)
	meta := &RunMetadata{ID: "x", Config: *cfg, Steps: 2}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, result.Trajectory); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Run.ID != "x" || len(data.Angles) != 3 || len(data.Trajectory) != 2 {
		t.Errorf("unexpected export: %+v", data)
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	traj := []network.Vector{{0.5, 1}, {0.25, 0}}
	if err := ExportCSV(&buf, traj); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	want := "step,m0,m1\n0,0.500000,1.000000\n1,0.250000,0.000000\n"
	if buf.String() != want {
		t.Errorf("ExportCSV = %q, want %q", buf.String(), want)
	}
}
