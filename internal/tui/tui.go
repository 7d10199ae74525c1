// Package tui renders the live activity feed in the terminal.
package tui

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gatewatch/internal/activity"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// snapshotMsg carries a published snapshot into the model.
type snapshotMsg struct{ snap activity.Snapshot }

// logMsg carries one feed line for the viewport.
type logMsg struct{ line string }

const maxLogLines = 500

var (
	styleCamp      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleSmartbomb = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	styleBattle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleDim       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Writer renders snapshots using a bubbletea TUI. It implements the
// snapshot writer interface used by the sink drain loop.
type Writer struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewWriter starts a bubbletea program and returns a Writer.
func NewWriter() *Writer {
	w := &Writer{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newModel(), tea.WithAltScreen())
	w.program = p
	go func() {
		_ = p.Start()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteSnapshot feeds one snapshot into the dashboard.
func (w *Writer) WriteSnapshot(snap activity.Snapshot) error {
	w.program.Send(snapshotMsg{snap: snap})
	for _, a := range snap.Activities {
		w.program.Send(logMsg{line: feedLine(snap.GeneratedAt, a)})
	}
	return nil
}

// Close shuts down the TUI program and waits for cleanup.
func (w *Writer) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

func classStyle(c activity.Classification) lipgloss.Style {
	switch c {
	case activity.ClassSmartbombCamp:
		return styleSmartbomb
	case activity.ClassBattle:
		return styleBattle
	default:
		return styleCamp
	}
}

func feedLine(at time.Time, a activity.Activity) string {
	tag := classStyle(a.Classification).Render(strings.ToUpper(string(a.Classification)))
	loc := fmt.Sprintf("system=%d", a.SolarSystemID)
	if a.GateName != "" {
		loc += fmt.Sprintf(" gate=%q", a.GateName)
	}
	return fmt.Sprintf("%s %s %s conf=%d pilots=%d kills=%d value=%.0f",
		styleDim.Render(at.Format(time.RFC3339)), tag, loc,
		a.Confidence, a.Pilots, len(a.KillIDs), a.TotalValue)
}

type model struct {
	table      table.Model
	vp         viewport.Model
	logs       []string
	snap       activity.Snapshot
	autoscroll bool
	height     int
}

func newModel() model {
	cols := []table.Column{
		{Title: "Class", Width: 10},
		{Title: "System", Width: 10},
		{Title: "Gate", Width: 28},
		{Title: "Conf", Width: 5},
		{Title: "Pilots", Width: 6},
		{Title: "Kills", Width: 5},
		{Title: "Value", Width: 12},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(8))
	return model{table: t, vp: viewport.New(0, 0), autoscroll: true}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.height = msg.Height
		m.updateViewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
			case "pgdown":
				m.vp.LineDown(10)
			case "pgup":
				m.vp.LineUp(10)
			}
			return m, nil
		}
		return m, nil
	case snapshotMsg:
		m.snap = msg.snap
		m.table.SetRows(activityRows(msg.snap))
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	}
	return m, nil
}

func activityRows(snap activity.Snapshot) []table.Row {
	acts := make([]activity.Activity, len(snap.Activities))
	copy(acts, snap.Activities)
	sort.Slice(acts, func(i, j int) bool { return acts[i].Confidence > acts[j].Confidence })

	rows := make([]table.Row, 0, len(acts))
	for _, a := range acts {
		rows = append(rows, table.Row{
			string(a.Classification),
			fmt.Sprintf("%d", a.SolarSystemID),
			a.GateName,
			fmt.Sprintf("%d", a.Confidence),
			fmt.Sprintf("%d", a.Pilots),
			fmt.Sprintf("%d", len(a.KillIDs)),
			fmt.Sprintf("%.0f", a.TotalValue),
		})
	}
	return rows
}

func (m *model) updateViewportHeight() {
	h := m.height - lipgloss.Height(m.table.View()) - 3
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *model) refreshViewport() {
	m.vp.SetContent(strings.Join(m.logs, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m model) View() string {
	divider := styleDim.Render(strings.Repeat("─", m.vp.Width))
	status := fmt.Sprintf("activities=%d updated=%s  q quit | s autoscroll",
		len(m.snap.Activities), m.snap.GeneratedAt.Format("15:04:05"))
	sections := []string{
		m.table.View(),
		divider,
		m.vp.View(),
		divider,
		styleDim.Render(status),
	}
	return strings.Join(sections, "\n")
}
