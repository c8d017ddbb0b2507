package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vito/progrock"
)

const (
	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
	statusCached    = "cached"

	// logTail is how many trailing toolchain output lines stay visible
	// under the phase list.
	logTail = 8
)

// PhaseState represents one pipeline phase row in the UI.
type PhaseState struct {
	ID     string
	Name   string
	Status string
}

type styles struct {
	running   lipgloss.Style
	completed lipgloss.Style
	failed    lipgloss.Style
	cached    lipgloss.Style
	log       lipgloss.Style
}

// Model is the Bubble Tea model for the TUI, tracking phase vertices and
// the tail of the toolchain output.
type Model struct {
	tape    TapeSource
	phases  []PhaseState
	logs    []string
	partial string
	width   int
	height  int
	spinner spinner.Model
	styles  styles
}

// NewModel creates a new TUI model with the given tape source.
func NewModel(tape TapeSource) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))

	return &Model{
		tape:    tape,
		spinner: s,
		styles: styles{
			running:   lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")),
			completed: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),  // Green
			failed:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")), // Red
			cached:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true),
			log:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		},
	}
}

// Init initializes the model and starts reading from the tape.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		WaitForTape(m.tape),
		m.spinner.Tick,
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case MsgTapeUpdate:
		m.processUpdate(msg.Update)
		return m, WaitForTape(m.tape)
	case MsgTapeEnded:
		return m, tea.Quit
	}
	return m, nil
}

// handleKeyMsg handles keyboard input messages.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	return m, nil
}

// processUpdate folds one status update into the model.
func (m *Model) processUpdate(update *progrock.StatusUpdate) {
	for _, v := range update.Vertexes {
		m.updateOrAddPhase(v)
	}
	for _, l := range update.Logs {
		m.appendLog(l.Data)
	}
}

// updateOrAddPhase updates an existing phase row or adds a new one.
func (m *Model) updateOrAddPhase(v *progrock.Vertex) {
	for i, existing := range m.phases {
		if existing.ID == v.Id {
			m.phases[i].Status = phaseStatus(v)
			return
		}
	}
	m.phases = append(m.phases, PhaseState{
		ID:     v.Id,
		Name:   v.Name,
		Status: phaseStatus(v),
	})
}

func phaseStatus(v *progrock.Vertex) string {
	switch {
	case v.Cached:
		return statusCached
	case v.Completed == nil:
		return statusRunning
	case v.Error != nil:
		return statusFailed
	default:
		return statusCompleted
	}
}

// appendLog folds raw output bytes into the line-oriented tail buffer.
func (m *Model) appendLog(data []byte) {
	text := m.partial + string(data)
	lines := strings.Split(text, "\n")
	m.partial = lines[len(lines)-1]
	m.logs = append(m.logs, lines[:len(lines)-1]...)
	if len(m.logs) > logTail {
		m.logs = m.logs[len(m.logs)-logTail:]
	}
}

// View renders the phase list followed by the output tail.
func (m *Model) View() string {
	var s strings.Builder

	for _, p := range m.phases {
		var icon string
		var style lipgloss.Style
		switch p.Status {
		case statusRunning:
			icon = m.spinner.View()
			style = m.styles.running
		case statusFailed:
			icon = "✗"
			style = m.styles.failed
		case statusCached:
			icon = "⚡"
			style = m.styles.cached
		default:
			icon = "✓"
			style = m.styles.completed
		}
		s.WriteString(fmt.Sprintf("%s %s\n", style.Render(icon), p.Name))
	}

	if len(m.logs) > 0 {
		s.WriteString("\n")
		for _, line := range m.logs {
			if m.width > 0 && len(line) > m.width {
				line = line[:m.width]
			}
			s.WriteString(m.styles.log.Render(line) + "\n")
		}
	}

	return s.String()
}
