package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rapidgui/rapidgui/internal/log"
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type tickMsg time.Time

// ownerState is shared across Model copies (bubbletea passes models by
// value). It is touched only on the owner goroutine.
type ownerState struct {
	fatal error
}

// Model is the bubbletea model for the owner loop. Every dispatch tick and
// every widget mutation happens inside Update.
type Model struct {
	scene *Scene
	state *ownerState

	width  int
	height int
	focus  int // index into scene.Widgets; only focusable widgets are selected
}

// NewModel wraps a built scene for tea.NewProgram.
func NewModel(scene *Scene) Model {
	m := Model{scene: scene, state: &ownerState{}, focus: -1}
	m.focus = m.nextFocusable(-1, 1)
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.scene.Config.App.Tick.Std(), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), tea.EnterAltScreen)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if err := m.scene.Dispatcher.Tick(); err != nil {
			// A scripting bug (unresolved op, bad arguments) is fatal to
			// the owner loop; masking it would hide the bug.
			m.state.fatal = err
			log.Error("fatal dispatch error, shutting down", "error", err)
			return m, tea.Quit
		}
		for _, w := range m.scene.Widgets {
			w.Tick()
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "down", "j":
			m.focus = m.nextFocusable(m.focus, 1)
		case "shift+tab", "up", "k":
			m.focus = m.nextFocusable(m.focus, -1)
		case "enter", " ", "space":
			if m.focus >= 0 {
				m.scene.Widgets[m.focus].Press()
			}
		default:
			for _, w := range m.scene.Widgets {
				if hk := w.Hotkey(); hk != "" && hk == msg.String() {
					w.Press()
				}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	parts := []string{titleStyle.Render(m.scene.Config.App.Title)}
	for i, w := range m.scene.Widgets {
		parts = append(parts, w.View(i == m.focus))
	}
	parts = append(parts, helpStyle.Render(" [tab] Focus • [enter] Press • [q] Quit"))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// nextFocusable walks the widget list from cur in direction dir and
// returns the next focusable index, or -1 if there is none.
func (m Model) nextFocusable(cur, dir int) int {
	n := len(m.scene.Widgets)
	if n == 0 {
		return -1
	}
	for step := 1; step <= n; step++ {
		i := ((cur+dir*step)%n + n) % n
		if m.scene.Widgets[i].Focusable() {
			return i
		}
	}
	return -1
}

// FatalErr reports the dispatch error that stopped the loop, if any. Valid
// after the program has exited.
func (m Model) FatalErr() error {
	return m.state.fatal
}
