package temporal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/gofrs/flock"
)

const dateLayout = "2006-01-02"

// Row is one persisted observation: the mean bias intensity (sentiment
// polarity) of all articles published on one calendar date.
type Row struct {
	Date          time.Time
	BiasIntensity float64
}

// csvRecord is the stable on-disk layout: date,bias_intensity.
type csvRecord struct {
	Date          string  `csv:"date"`
	BiasIntensity float64 `csv:"bias_intensity"`
}

// MergeRows appends new rows to existing ones, drops duplicate dates
// keeping the newest entry (last-write-wins), and sorts ascending by
// date. Re-merging the same batch is idempotent on the date key.
func MergeRows(existing, incoming []Row) []Row {
	combined := append(append([]Row(nil), existing...), incoming...)

	latest := make(map[time.Time]float64, len(combined))
	for _, row := range combined {
		latest[DateOf(row.Date)] = row.BiasIntensity
	}

	merged := make([]Row, 0, len(latest))
	for day, bias := range latest {
		merged = append(merged, Row{Date: day, BiasIntensity: bias})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date.Before(merged[j].Date) })
	return merged
}

// LoadRows reads the persisted dataset. A missing file is an empty
// dataset, not an error.
func LoadRows(path string) ([]Row, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	var records []csvRecord
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	rows := make([]Row, len(records))
	for i, rec := range records {
		date, err := time.ParseInLocation(dateLayout, rec.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q in dataset row %d: %w", rec.Date, i, err)
		}
		rows[i] = Row{Date: date, BiasIntensity: rec.BiasIntensity}
	}
	return rows, nil
}

// SaveRows rewrites the full dataset under the per-path advisory lock.
// Callers that load, merge and save as one transaction must hold the lock
// across all three steps themselves and use saveRowsLocked instead.
func SaveRows(path string, rows []Row) error {
	lock := datasetLock(path)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock dataset: %w", err)
	}
	defer lock.Unlock()

	return saveRowsLocked(path, rows)
}

// datasetLock is the advisory lock guarding one dataset path.
func datasetLock(path string) *flock.Flock {
	return flock.New(path + ".lock")
}

// saveRowsLocked rewrites the dataset via write-to-temp-then-rename, so
// readers never observe a torn file. The caller holds the dataset lock.
func saveRowsLocked(path string, rows []Row) error {
	records := make([]csvRecord, len(rows))
	for i, row := range rows {
		records[i] = csvRecord{
			Date:          row.Date.Format(dateLayout),
			BiasIntensity: row.BiasIntensity,
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dataset: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gocsv.MarshalFile(&records, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace dataset: %w", err)
	}
	return nil
}
