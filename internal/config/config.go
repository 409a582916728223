// FILENAME: internal/config/config.go
package config

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Global Configuration
const (
	// Harness
	DefaultThreads  = 8
	DefaultEpisodes = 100_000
	DefaultAlgo     = "all"

	// Latency sampling. Participant 0 times every episode but keeps at
	// most MaxLatencySamples of them, strided across the run.
	MaxLatencySamples = 65_536

	// Progress reporting cadence, in episodes.
	ProgressInterval = 1_000

	// Participants that have not all returned within this long are
	// considered deadlocked by the tests.
	DeadlockTimeout = 10 * time.Second

	// Reports
	DefaultReportDir = "reports"
)

// UI Colors (Palette)
var (
	ColorFocus  = lipgloss.Color("39")  // Vivid Blue
	ColorAccent = lipgloss.Color("212") // Pink
	ColorErr    = lipgloss.Color("196") // Red
	ColorWarn   = lipgloss.Color("214") // Orange
	ColorOk     = lipgloss.Color("42")  // Green
	ColorSub    = lipgloss.Color("240") // Dark Grey
)
