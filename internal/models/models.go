// FILENAME: internal/models/models.go
package models

import (
	"fmt"
	"sort"
	"time"
)

// RunConfig describes one measured barrier run.
type RunConfig struct {
	Kind     string `json:"kind"`
	Threads  int    `json:"threads"`
	Episodes int    `json:"episodes"`
}

// RunResult is the outcome of one barrier run: how far it got, how fast the
// episodes turned over, and whether the publication check ever failed.
type RunResult struct {
	RunConfig

	// Completed is the number of episodes every participant finished.
	// Less than Episodes only when the run was aborted.
	Completed int           `json:"completed"`
	Elapsed   time.Duration `json:"elapsed_ns"`

	EpisodesPerSec float64 `json:"episodes_per_sec"`

	// Episode latency on participant 0.
	P50 time.Duration `json:"p50_ns"`
	P99 time.Duration `json:"p99_ns"`
	Max time.Duration `json:"max_ns"`

	// FenceFailures counts episodes in which a participant failed to
	// observe a neighbor's pre-barrier write after the barrier. Anything
	// but zero is a correctness bug.
	FenceFailures uint64 `json:"fence_failures"`

	Aborted bool `json:"aborted"`
}

// NewRunResult computes the derived statistics from raw episode samples.
// samples may be empty; it is consumed (sorted in place).
func NewRunResult(cfg RunConfig, completed int, elapsed time.Duration, samples []time.Duration, fenceFailures uint64, aborted bool) RunResult {
	r := RunResult{
		RunConfig:     cfg,
		Completed:     completed,
		Elapsed:       elapsed,
		FenceFailures: fenceFailures,
		Aborted:       aborted,
	}

	if elapsed > 0 && completed > 0 {
		r.EpisodesPerSec = float64(completed) / elapsed.Seconds()
	}

	if len(samples) > 0 {
		sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
		r.P50 = samples[percentileIndex(len(samples), 50)]
		r.P99 = samples[percentileIndex(len(samples), 99)]
		r.Max = samples[len(samples)-1]
	}

	return r
}

// percentileIndex maps a percentile onto a sorted-slice index.
func percentileIndex(n, pct int) int {
	idx := n * pct / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}

func (r RunResult) String() string {
	status := "ok"
	if r.Aborted {
		status = "aborted"
	}
	if r.FenceFailures > 0 {
		status = fmt.Sprintf("FENCE FAILURES=%d", r.FenceFailures)
	}
	return fmt.Sprintf("%-13s | n=%-3d | %d/%d eps | %.0f eps/s | p50=%v p99=%v | %s",
		r.Kind, r.Threads, r.Completed, r.Episodes, r.EpisodesPerSec, r.P50, r.P99, status)
}
