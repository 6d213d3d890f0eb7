// Package temporal maintains the durable date-indexed bias-intensity
// dataset and the regression model predicting the next observation's
// bias. This is the only stateful part of the pipeline: each analysis
// run merges its observations into the dataset and retrains the model
// from scratch on the merged result.
package temporal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	datasetFileName = "historical_bias_data.csv"
	modelFileName   = "temporal_bias_model.gob"
)

// Analyzer owns the dataset and model files under one data directory.
type Analyzer struct {
	datasetPath string
	modelPath   string
}

// NewAnalyzer creates the data directory if needed.
func NewAnalyzer(dataPath string) (*Analyzer, error) {
	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Analyzer{
		datasetPath: filepath.Join(dataPath, datasetFileName),
		modelPath:   filepath.Join(dataPath, modelFileName),
	}, nil
}

// DatasetPath exposes the dataset location, mainly for tests.
func (a *Analyzer) DatasetPath() string { return a.datasetPath }

// Update merges the new observations into the persisted dataset and
// retrains the model when at least two dates exist afterwards. The merge
// always runs and persists even when training is skipped, and the model
// is always trained on the post-merge dataset.
//
// The dataset lock is held across the whole load-merge-save (and the model
// persist that follows): two concurrent requests each read-modify-write
// the full file, so locking only the write would let the second writer
// overwrite rows the first one just merged in.
//
// With no new observations the dataset is returned untouched (for
// visualization continuity) and no retraining happens. Too little history
// is not an error: the model comes back nil.
func (a *Analyzer) Update(incoming []Row) (*Forest, []Row, error) {
	if len(incoming) == 0 {
		log.Println("No new data to update the temporal model.")
		existing, err := LoadRows(a.datasetPath)
		if err != nil {
			return nil, nil, err
		}
		return nil, existing, nil
	}

	lock := datasetLock(a.datasetPath)
	if err := lock.Lock(); err != nil {
		return nil, nil, fmt.Errorf("failed to lock dataset: %w", err)
	}
	defer lock.Unlock()

	existing, err := LoadRows(a.datasetPath)
	if err != nil {
		return nil, nil, err
	}
	merged := MergeRows(existing, incoming)
	if err := saveRowsLocked(a.datasetPath, merged); err != nil {
		return nil, nil, err
	}
	log.Printf("Historical dataset updated. Total data points: %d", len(merged))

	model, err := Train(merged)
	if err != nil {
		return nil, merged, err
	}
	if model == nil {
		return nil, merged, nil
	}

	log.Println("Re-training temporal model with new data...")
	if err := SaveModel(a.modelPath, model); err != nil {
		return nil, merged, err
	}
	log.Printf("Temporal model saved to %s", a.modelPath)
	return model, merged, nil
}

// Train fits the forest on the one-step-ahead shifted dataset. Fewer than
// two rows is a data-insufficiency condition, not an error: the result is
// simply no model. Each row's features are (days since dataset start,
// bias intensity) and its target is the following row's bias intensity;
// the final row has no successor and is dropped before fitting.
func Train(rows []Row) (*Forest, error) {
	if len(rows) < 2 {
		log.Warn("Not enough historical data to train temporal model.")
		return nil, nil
	}

	start := rows[0].Date
	features := make([][]float64, 0, len(rows)-1)
	targets := make([]float64, 0, len(rows)-1)
	for i := 0; i+1 < len(rows); i++ {
		features = append(features, []float64{
			DaysSince(start, rows[i].Date),
			rows[i].BiasIntensity,
		})
		targets = append(targets, rows[i+1].BiasIntensity)
	}

	model, err := TrainForest(features, targets)
	if err != nil {
		return nil, fmt.Errorf("failed to train temporal model: %w", err)
	}
	return model, nil
}

// DaysSince counts whole days between two dates.
func DaysSince(start, date time.Time) float64 {
	return date.Sub(start).Hours() / 24
}
