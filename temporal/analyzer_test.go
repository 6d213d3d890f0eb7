package temporal

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestUpdateMergesPersistsAndTrains(t *testing.T) {
	dir := t.TempDir()
	analyzer, err := NewAnalyzer(dir)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	incoming := []Row{
		{Date: day(t, "2026-08-01"), BiasIntensity: 0.1},
		{Date: day(t, "2026-08-02"), BiasIntensity: 0.2},
		{Date: day(t, "2026-08-03"), BiasIntensity: -0.1},
	}
	model, rows, err := analyzer.Update(incoming)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if model == nil {
		t.Error("Update() returned no model for 3 dates")
	}
	if len(rows) != 3 {
		t.Errorf("dataset size = %d, want 3", len(rows))
	}
	if _, err := os.Stat(analyzer.DatasetPath()); err != nil {
		t.Errorf("dataset file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "temporal_bias_model.gob")); err != nil {
		t.Errorf("model file missing: %v", err)
	}
}

func TestUpdateRerunWithCollidingDateKeepsRowCount(t *testing.T) {
	analyzer, err := NewAnalyzer(t.TempDir())
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	first := []Row{
		{Date: day(t, "2026-08-01"), BiasIntensity: 0.1},
		{Date: day(t, "2026-08-02"), BiasIntensity: 0.2},
		{Date: day(t, "2026-08-03"), BiasIntensity: -0.1},
	}
	if _, _, err := analyzer.Update(first); err != nil {
		t.Fatalf("first Update() error = %v", err)
	}

	// One date collides with existing history, none are new.
	second := []Row{{Date: day(t, "2026-08-02"), BiasIntensity: 0.9}}
	_, rows, err := analyzer.Update(second)
	if err != nil {
		t.Fatalf("second Update() error = %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("dataset size after rerun = %d, want 3", len(rows))
	}
	if rows[1].BiasIntensity != 0.9 {
		t.Errorf("colliding date value = %v, want the newer 0.9", rows[1].BiasIntensity)
	}
}

func TestUpdateEmptyIncomingLeavesDatasetUntouched(t *testing.T) {
	analyzer, err := NewAnalyzer(t.TempDir())
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	seed := []Row{
		{Date: day(t, "2026-08-01"), BiasIntensity: 0.1},
		{Date: day(t, "2026-08-02"), BiasIntensity: 0.2},
	}
	if err := SaveRows(analyzer.DatasetPath(), seed); err != nil {
		t.Fatalf("SaveRows() error = %v", err)
	}

	model, rows, err := analyzer.Update(nil)
	if err != nil {
		t.Fatalf("Update(nil) error = %v", err)
	}
	if model != nil {
		t.Error("Update(nil) retrained a model")
	}
	if len(rows) != len(seed) {
		t.Errorf("dataset size = %d, want %d", len(rows), len(seed))
	}
}

func TestUpdateSingleDateSkipsTraining(t *testing.T) {
	analyzer, err := NewAnalyzer(t.TempDir())
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	model, rows, err := analyzer.Update([]Row{{Date: day(t, "2026-08-01"), BiasIntensity: 0.3}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if model != nil {
		t.Error("Update() trained on a single row")
	}
	if len(rows) != 1 {
		t.Errorf("dataset size = %d, want 1", len(rows))
	}
}

func TestUpdateConcurrentWritersLoseNoRows(t *testing.T) {
	analyzer, err := NewAnalyzer(t.TempDir())
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	// Each writer merges one distinct date. Every update is a full
	// read-modify-write of the dataset file, so any window between one
	// writer's load and its save silently discards the other writers'
	// rows.
	const writers = 8
	base := day(t, "2026-08-01")
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := analyzer.Update([]Row{{
				Date:          base.AddDate(0, 0, i),
				BiasIntensity: float64(i) * 0.01,
			}})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}

	rows, err := LoadRows(analyzer.DatasetPath())
	if err != nil {
		t.Fatalf("LoadRows() error = %v", err)
	}
	if len(rows) != writers {
		t.Errorf("dataset rows = %d, want %d: a concurrent update was overwritten", len(rows), writers)
	}
}

func TestDaysSince(t *testing.T) {
	start := day(t, "2026-08-01")
	if got := DaysSince(start, day(t, "2026-08-04")); got != 3 {
		t.Errorf("DaysSince() = %v, want 3", got)
	}
	if got := DaysSince(start, start); got != 0 {
		t.Errorf("DaysSince(same day) = %v, want 0", got)
	}
}
