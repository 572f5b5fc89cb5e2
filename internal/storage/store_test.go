package storage

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Frames: []sim.Frame{
			{Tick: 0, Time: 0, Bodies: []sim.BodySample{
				{Position: mgl64.Vec3{500, 400, 0}, Velocity: mgl64.Vec3{2, -0.75, 0}, ScreenX: 490, ScreenY: 410, Radius: 10},
				{Position: mgl64.Vec3{1000, 400, -500}, Velocity: mgl64.Vec3{-2, 0.75, 0}, ScreenX: 990, ScreenY: 410, Radius: 16.25},
			}},
			{Tick: 5, Time: 5, Bodies: []sim.BodySample{
				{Position: mgl64.Vec3{510.1, 396.25, 0}, Velocity: mgl64.Vec3{2.02, -0.75, 0}, ScreenX: 500.1, ScreenY: 406.25, Radius: 10},
				{Position: mgl64.Vec3{989.9, 403.75, -500}, Velocity: mgl64.Vec3{-2.02, 0.75, 0}, ScreenX: 979.9, ScreenY: 413.75, Radius: 16.25},
			}},
		},
		Metrics: map[string]float64{
			"momentum_drift": 1.5e-12,
			"energy_drift":   math.NaN(),
		},
		TicksTaken: 5,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := &RunMetadata{Scenario: "two", Seed: 42, Dt: 1, G: 1, Ticks: 5, Bodies: 2, Colors: []string{"#ff0000", "#0000ff"}}
	runID, err := st.Save(meta, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" || meta.ID != runID {
		t.Errorf("expected run id to be filled in, got %q / %q", runID, meta.ID)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Scenario != "two" || loaded.Seed != 42 {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if loaded.Metrics["momentum_drift"] != 1.5e-12 {
		t.Errorf("expected momentum drift 1.5e-12, got %v", loaded.Metrics["momentum_drift"])
	}
	if _, ok := loaded.Metrics["energy_drift"]; ok {
		t.Error("non-finite metric should not be stored as a value")
	}
	if len(loaded.NonFiniteMetrics) != 1 || loaded.NonFiniteMetrics[0] != "energy_drift" {
		t.Errorf("expected energy_drift listed as non-finite, got %v", loaded.NonFiniteMetrics)
	}
	if len(loaded.Colors) != 2 {
		t.Errorf("expected 2 colours, got %v", loaded.Colors)
	}

	frames, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	want := testResult().Frames
	if len(frames) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(frames))
	}
	for i := range want {
		if frames[i].Tick != want[i].Tick || frames[i].Time != want[i].Time {
			t.Errorf("frame %d: tick %d time %v", i, frames[i].Tick, frames[i].Time)
		}
		for j := range want[i].Bodies {
			if frames[i].Bodies[j] != want[i].Bodies[j] {
				t.Errorf("frame %d body %d: got %+v, want %+v", i, j, frames[i].Bodies[j], want[i].Bodies[j])
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(&RunMetadata{Scenario: "ring"}, &sim.Result{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Scenario != "ring" {
		t.Errorf("expected one ring run, got %+v", runs)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(&RunMetadata{Scenario: "two"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, trajectoryFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.LoadTrajectory("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.Save(nil, &sim.Result{}); !errors.Is(err, ErrNoMetadata) {
		t.Errorf("expected ErrNoMetadata, got %v", err)
	}
}

func TestTrajectoryNonFinite(t *testing.T) {
	frames := []sim.Frame{{Tick: 3, Time: 3, Bodies: []sim.BodySample{
		{Position: mgl64.Vec3{math.NaN(), math.Inf(1), 0}},
	}}}

	var buf bytes.Buffer
	if err := WriteTrajectory(&buf, frames); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := ReadTrajectory(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	p := got[0].Bodies[0].Position
	if !math.IsNaN(p.X()) || !math.IsInf(p.Y(), 1) {
		t.Errorf("non-finite values not preserved: %v", p)
	}
}

func TestReadTrajectoryMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"short row", "tick,time,body,x,y,z,vx,vy,vz,screen_x,screen_y,radius\n1,2,3\n"},
		{"bad tick", "tick,time,body,x,y,z,vx,vy,vz,screen_x,screen_y,radius\nx,0,0,0,0,0,0,0,0,0,0,0\n"},
		{"bad float", "tick,time,body,x,y,z,vx,vy,vz,screen_x,screen_y,radius\n0,0,0,abc,0,0,0,0,0,0,0,0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTrajectory(bytes.NewBufferString(tt.input))
			if !errors.Is(err, ErrBadRecord) {
				t.Errorf("expected ErrBadRecord, got %v", err)
			}
		})
	}
}

func TestStoreSaveUniqueIDs(t *testing.T) {
	st := New(t.TempDir())

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		id, err := st.Save(&RunMetadata{Scenario: "two"}, testResult())
		if err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("run id %s reused", id)
		}
		seen[id] = true
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 5 {
		t.Errorf("expected 5 runs, got %d", len(runs))
	}
}

func TestStoreSaveRejectsNilResult(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if _, err := st.Save(&RunMetadata{Scenario: "two"}, nil); !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no run directory, found %d entries", len(entries))
	}
}

func TestStoreSaveCleansUpOnWriteError(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	// json cannot encode NaN
	meta := &RunMetadata{Scenario: "two", Width: math.NaN()}
	if _, err := st.Save(meta, testResult()); err == nil {
		t.Fatal("expected a metadata write error")
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected the half-written run to be removed, found %d entries", len(entries))
	}

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected no runs, got %v, %v", runs, err)
	}
}
