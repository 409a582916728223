// FILENAME: internal/ui/model.go
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xkilldash9x/spingate/internal/config"
	"github.com/xkilldash9x/spingate/internal/models"
	"github.com/xkilldash9x/spingate/internal/report"
	"go.uber.org/zap"
)

// -- Messages --

// RunStartedMsg announces that run Index of Total has begun.
type RunStartedMsg struct {
	Kind  string
	Index int
	Total int
}

// RunProgressMsg carries episode progress for the run in flight.
type RunProgressMsg struct {
	Completed int
	Episodes  int
}

// RunDoneMsg delivers a finished run.
type RunDoneMsg models.RunResult

// SuiteDoneMsg delivers the whole suite.
type SuiteDoneMsg []models.RunResult

// SuiteErrMsg delivers a fatal suite error.
type SuiteErrMsg struct{ Err error }

// -- States --

type State int

const (
	StateRunning State = iota
	StateDone
	StateError
)

// -- KeyMap --

type KeyMap struct {
	Up, Down key.Binding
	Save     key.Binding
	Quit     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Save: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save report")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Save, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Save, k.Quit}}
}

// Model renders a benchmark suite as it runs: one row per finished
// algorithm, a progress bar for the run in flight, and a final verdict.
type Model struct {
	State   State
	Logger  *zap.Logger
	Writer  *report.Writer
	Keys    KeyMap
	Results []models.RunResult

	// Run in flight
	CurrentKind  string
	CurrentIndex int
	TotalRuns    int
	Completed    int
	Episodes     int

	Err        error
	StatusLine string

	// UI Components
	ResTable    table.Model
	ProgressBar progress.Model
	Spinner     spinner.Model
	Help        help.Model

	Width  int
	Height int
}

func NewModel(logger *zap.Logger, writer *report.Writer, totalRuns int) Model {
	t := table.New(
		table.WithColumns(resultColumns()),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(config.ColorFocus).Bold(false)
	t.SetStyles(s)

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(config.ColorAccent)

	return Model{
		State:       StateRunning,
		Logger:      logger,
		Writer:      writer,
		Keys:        DefaultKeyMap(),
		TotalRuns:   totalRuns,
		ResTable:    t,
		ProgressBar: progress.New(progress.WithDefaultGradient()),
		Spinner:     spin,
		Help:        help.New(),
	}
}

func resultColumns() []table.Column {
	return []table.Column{
		{Title: "Algorithm", Width: 14},
		{Title: "Threads", Width: 8},
		{Title: "Eps/s", Width: 12},
		{Title: "p50", Width: 10},
		{Title: "p99", Width: 10},
		{Title: "Status", Width: 10},
	}
}

func (m Model) Init() tea.Cmd {
	return m.Spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.ResTable.SetWidth(m.Width - 4)
		m.ProgressBar.Width = m.Width - 8

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.Keys.Save):
			if m.State == StateDone && m.Writer != nil {
				paths, err := m.Writer.WriteArtifacts(m.Results, "suite")
				if err != nil {
					m.StatusLine = "save failed: " + err.Error()
				} else {
					m.StatusLine = "saved " + paths[0]
				}
				return m, nil
			}
		}
		m.ResTable, cmd = m.ResTable.Update(msg)
		return m, cmd

	case RunStartedMsg:
		m.CurrentKind = msg.Kind
		m.CurrentIndex = msg.Index
		m.Completed = 0
		return m, nil

	case RunProgressMsg:
		m.Completed = msg.Completed
		m.Episodes = msg.Episodes
		return m, nil

	case RunDoneMsg:
		m.Results = append(m.Results, models.RunResult(msg))
		m.refreshRows()
		return m, nil

	case SuiteDoneMsg:
		m.State = StateDone
		m.Results = []models.RunResult(msg)
		m.refreshRows()
		return m, nil

	case SuiteErrMsg:
		m.State = StateError
		m.Err = msg.Err
		return m, nil

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) refreshRows() {
	rows := make([]table.Row, len(m.Results))
	for i, r := range m.Results {
		status := "ok"
		if r.Aborted {
			status = "aborted"
		}
		if r.FenceFailures > 0 {
			status = fmt.Sprintf("FENCE:%d", r.FenceFailures)
		}
		rows[i] = table.Row{
			r.Kind,
			fmt.Sprintf("%d", r.Threads),
			fmt.Sprintf("%.0f", r.EpisodesPerSec),
			r.P50.String(),
			r.P99.String(),
			verdictStyle(r.FenceFailures, r.Aborted).Render(status),
		}
	}
	m.ResTable.SetRows(rows)
}

func (m Model) View() string {
	header := titleStyle.Render("spingate :: barrier suite")

	var body string
	switch m.State {
	case StateRunning:
		pct := 0.0
		if m.Episodes > 0 {
			pct = float64(m.Completed) / float64(m.Episodes)
		}
		line := fmt.Sprintf("%s run %d/%d: %s (%d/%d episodes)",
			m.Spinner.View(), m.CurrentIndex+1, m.TotalRuns, m.CurrentKind, m.Completed, m.Episodes)
		body = lipgloss.JoinVertical(lipgloss.Left,
			line,
			m.ProgressBar.ViewAs(pct),
			m.ResTable.View(),
		)

	case StateDone:
		body = lipgloss.JoinVertical(lipgloss.Left,
			okStyle.Render("suite complete"),
			m.ResTable.View(),
		)

	case StateError:
		body = errStyle.Render("suite failed: " + m.Err.Error())
	}

	status := statusText.Render(m.StatusLine)
	footer := m.Help.View(m.Keys)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		panelStyle.Render(body),
		status,
		subStyle.Render(footer),
	)
}
