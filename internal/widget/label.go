package widget

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rapidgui/rapidgui/internal/call"
)

// Label is a plain line of text.
type Label struct {
	*Base
	text  string
	style lipgloss.Style
}

// NewLabel builds a label from scene properties.
func NewLabel(id string, queueCapacity int, p map[string]any) (*Label, error) {
	pr := props(p)
	if err := pr.checkKeys("x", "y", "width", "height", "text", "color", "bold"); err != nil {
		return nil, err
	}

	l := &Label{Base: newBase(id, "label", queueCapacity)}

	var err error
	if l.geom, err = pr.geometry(); err != nil {
		return nil, err
	}
	if l.text, err = pr.stringOr("text", ""); err != nil {
		return nil, err
	}
	color, err := pr.stringOr("color", "")
	if err != nil {
		return nil, err
	}
	bold, err := pr.boolOr("bold", false)
	if err != nil {
		return nil, err
	}

	l.style = lipgloss.NewStyle().Bold(bold)
	if color != "" {
		l.style = l.style.Foreground(lipgloss.Color(color))
	}

	l.ops["set_text"] = func(a call.Args) (any, error) {
		s, err := stringArg(a, 0)
		if err != nil {
			return nil, err
		}
		l.text = s
		return nil, nil
	}
	l.ops["get_text"] = func(call.Args) (any, error) { return l.text, nil }

	return l, nil
}

// Text returns the current text (owner goroutine only).
func (l *Label) Text() string { return l.text }

func (l *Label) Focusable() bool { return false }
func (l *Label) Press()          {}
func (l *Label) Tick()           {}

func (l *Label) View(bool) string {
	return l.style.Render(l.text)
}
