// FILENAME: internal/models/models_test.go
package models_test

import (
	"strings"
	"testing"
	"time"

	"github.com/xkilldash9x/spingate/internal/models"
)

func TestNewRunResult(t *testing.T) {
	cfg := models.RunConfig{Kind: "centralized", Threads: 4, Episodes: 100}
	samples := []time.Duration{
		5 * time.Microsecond,
		1 * time.Microsecond,
		3 * time.Microsecond,
		2 * time.Microsecond,
		4 * time.Microsecond,
	}

	res := models.NewRunResult(cfg, 100, time.Second, samples, 0, false)

	// 1. Throughput
	if res.EpisodesPerSec != 100 {
		t.Errorf("EpisodesPerSec = %f, want 100", res.EpisodesPerSec)
	}

	// 2. Percentiles over the sorted samples
	if res.Max != 5*time.Microsecond {
		t.Errorf("Max = %v, want 5µs", res.Max)
	}
	if res.P50 != 3*time.Microsecond {
		t.Errorf("P50 = %v, want 3µs", res.P50)
	}
	if res.P99 != 5*time.Microsecond {
		t.Errorf("P99 = %v, want 5µs", res.P99)
	}

	// 3. Status string
	if !strings.Contains(res.String(), "ok") {
		t.Errorf("String() = %q, want ok status", res.String())
	}
}

func TestNewRunResultEmptySamples(t *testing.T) {
	cfg := models.RunConfig{Kind: "mcs", Threads: 2, Episodes: 10}
	res := models.NewRunResult(cfg, 0, 0, nil, 0, true)

	if res.EpisodesPerSec != 0 || res.P50 != 0 || res.Max != 0 {
		t.Error("zero-sample result should carry zero stats")
	}
	if !strings.Contains(res.String(), "aborted") {
		t.Errorf("String() = %q, want aborted status", res.String())
	}
}

func TestRunResultFenceStatus(t *testing.T) {
	cfg := models.RunConfig{Kind: "tournament", Threads: 2, Episodes: 10}
	res := models.NewRunResult(cfg, 10, time.Second, nil, 3, false)

	if !strings.Contains(res.String(), "FENCE") {
		t.Errorf("String() = %q, want fence failure status", res.String())
	}
}
