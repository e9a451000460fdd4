package storage

import (
	"bytes"
	"strings"
	"testing"

	"bioflow/internal/config"
	"bioflow/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Times: []float64{0, 0.5, 1.0},
		States: []sim.State{
			{0.002, 0.8, 0.2},
			{0.003, 0.75, 0.5},
			{0.004, 0.78, 0.9},
		},
		Metrics: map[string]float64{"peak_kla": 0.9},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	result := sampleResult()

	runID, err := st.Save(cfg, result)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load metadata: %v", err)
	}
	if meta.Params.Ki != cfg.Params.Ki {
		t.Errorf("ki lost: %g", meta.Params.Ki)
	}
	if meta.Metrics["peak_kla"] != 0.9 {
		t.Errorf("metrics lost: %v", meta.Metrics)
	}

	loaded, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory: %v", err)
	}
	if len(loaded.States) != len(result.States) {
		t.Fatalf("expected %d samples, got %d", len(result.States), len(loaded.States))
	}
	for i := range result.States {
		if loaded.Times[i] != result.Times[i] {
			t.Errorf("time %d lost precision: %g vs %g", i, loaded.Times[i], result.Times[i])
		}
		for j := range result.States[i] {
			if loaded.States[i][j] != result.States[i][j] {
				t.Errorf("state (%d,%d) lost precision: %g vs %g", i, j, loaded.States[i][j], result.States[i][j])
			}
		}
	}
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty store, got %d runs", len(runs))
	}

	if _, err := st.Save(config.DefaultConfig(), sampleResult()); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	st := New("/nonexistent/bioflow-test")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("expected empty list for missing dir, got %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, sampleResult()); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "time,X,S,kla" {
		t.Errorf("unexpected header: %s", lines[0])
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := &RunMetadata{ID: "run_1", Integrator: "euler", Metrics: map[string]float64{"peak_kla": 0.9}}

	if err := ExportJSON(&buf, meta, sampleResult()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"id": "run_1"`) || !strings.Contains(out, `"peak_kla"`) {
		t.Errorf("unexpected json: %s", out)
	}
}
