package visualize

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"biaslens/temporal"
	"biaslens/types"
)

func historyRows(n int) []temporal.Row {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]temporal.Row, n)
	for i := range rows {
		rows[i] = temporal.Row{
			Date:          start.AddDate(0, 0, i),
			BiasIntensity: float64(i%3)*0.1 - 0.1,
		}
	}
	return rows
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("chart file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("chart file %s is empty", path)
	}
}

func TestEvolutionWritesChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "historical_bias.png")
	if err := Evolution(historyRows(5), path, nil); err != nil {
		t.Fatalf("Evolution() error = %v", err)
	}
	assertPNG(t, path)
}

func TestEvolutionWithPredictionMarker(t *testing.T) {
	rows := historyRows(5)
	model, err := temporal.Train(rows)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if model == nil {
		t.Fatal("Train() returned no model for 5 rows")
	}

	path := filepath.Join(t.TempDir(), "historical_bias.png")
	if err := Evolution(rows, path, model); err != nil {
		t.Fatalf("Evolution() error = %v", err)
	}
	assertPNG(t, path)
}

func TestEvolutionBelowMovingAverageWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "historical_bias.png")
	if err := Evolution(historyRows(2), path, nil); err != nil {
		t.Fatalf("Evolution() error = %v", err)
	}
	assertPNG(t, path)
}

func TestEvolutionEmptyHistoryIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "historical_bias.png")
	if err := Evolution(nil, path, nil); err != nil {
		t.Fatalf("Evolution() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("empty history still wrote a chart (stat err = %v)", err)
	}
}

func TestSourcesWritesChart(t *testing.T) {
	articles := []types.Article{
		{URL: "https://upbeat.com/a", Text: "A wonderful, excellent and great success story."},
		{URL: "https://gloomy.net/a", Text: "A terrible, awful and horrible failure."},
		{URL: "https://neutral.org/a", Text: "The committee met on Tuesday."},
	}

	path := filepath.Join(t.TempDir(), "source_bias.png")
	if err := Sources(articles, path); err != nil {
		t.Fatalf("Sources() error = %v", err)
	}
	assertPNG(t, path)
}

func TestSourcesEmptyInputIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source_bias.png")
	if err := Sources(nil, path); err != nil {
		t.Fatalf("Sources() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("empty input still wrote a chart (stat err = %v)", err)
	}
}
