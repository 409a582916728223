// FILENAME: internal/report/writer.go
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xkilldash9x/spingate/internal/models"
)

// Writer handles artifact generation.
type Writer struct {
	BaseDir string
}

func NewWriter(baseDir string) *Writer {
	return &Writer{BaseDir: baseDir}
}

// WriteArtifacts saves the run results to disk in structured formats and
// returns the paths it wrote.
func (w *Writer) WriteArtifacts(results []models.RunResult, prefix string) ([]string, error) {
	if err := os.MkdirAll(w.BaseDir, 0755); err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102-150405")
	baseName := fmt.Sprintf("%s-%s", prefix, timestamp)

	// 1. JSON Report
	jsonPath := filepath.Join(w.BaseDir, baseName+".json")
	if err := w.writeJSON(results, jsonPath); err != nil {
		return nil, err
	}

	// 2. CSV Report
	csvPath := filepath.Join(w.BaseDir, baseName+".csv")
	if err := w.writeCSV(results, csvPath); err != nil {
		return nil, err
	}

	return []string{jsonPath, csvPath}, nil
}

func (w *Writer) writeJSON(results []models.RunResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func (w *Writer) writeCSV(results []models.RunResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	// Header
	header := []string{"Kind", "Threads", "Episodes", "Completed", "EpisodesPerSec", "P50(ns)", "P99(ns)", "Max(ns)", "FenceFailures", "Aborted"}
	if err := cw.Write(header); err != nil {
		return err
	}

	// Rows
	for _, r := range results {
		row := []string{
			r.Kind,
			strconv.Itoa(r.Threads),
			strconv.Itoa(r.Episodes),
			strconv.Itoa(r.Completed),
			strconv.FormatFloat(r.EpisodesPerSec, 'f', 1, 64),
			strconv.FormatInt(r.P50.Nanoseconds(), 10),
			strconv.FormatInt(r.P99.Nanoseconds(), 10),
			strconv.FormatInt(r.Max.Nanoseconds(), 10),
			strconv.FormatUint(r.FenceFailures, 10),
			strconv.FormatBool(r.Aborted),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return nil
}
