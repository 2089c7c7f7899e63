package widget

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rapidgui/rapidgui/internal/call"
)

var (
	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			BorderForeground(lipgloss.Color("240"))

	buttonFocusedStyle = buttonStyle.
				BorderForeground(lipgloss.Color("#874BFD")).
				Foreground(lipgloss.Color("229")).
				Bold(true)

	buttonDisabledStyle = buttonStyle.
				BorderForeground(lipgloss.Color("238")).
				Foreground(lipgloss.Color("241")).
				Faint(true)
)

// Button is a pressable widget. A press fires every registered listener;
// a disabled button renders dimmed and does not fire.
type Button struct {
	*Base
	label   string
	enabled bool
	hotkey  string
}

// NewButton builds a button from scene properties.
func NewButton(id string, queueCapacity int, p map[string]any) (*Button, error) {
	pr := props(p)
	if err := pr.checkKeys("x", "y", "width", "height", "label", "enabled", "hotkey", "background_color"); err != nil {
		return nil, err
	}

	b := &Button{Base: newBase(id, "button", queueCapacity)}

	var err error
	if b.geom, err = pr.geometry(); err != nil {
		return nil, err
	}
	if b.label, err = pr.stringOr("label", id); err != nil {
		return nil, err
	}
	if b.enabled, err = pr.boolOr("enabled", true); err != nil {
		return nil, err
	}
	if b.hotkey, err = pr.stringOr("hotkey", ""); err != nil {
		return nil, err
	}
	if b.bgColor, err = pr.stringOr("background_color", ""); err != nil {
		return nil, err
	}

	b.ops["set_enabled"] = func(a call.Args) (any, error) {
		v, err := boolArg(a, 0)
		if err != nil {
			return nil, err
		}
		b.enabled = v
		return nil, nil
	}
	b.ops["get_enabled"] = func(call.Args) (any, error) { return b.enabled, nil }
	b.ops["set_label"] = func(a call.Args) (any, error) {
		s, err := stringArg(a, 0)
		if err != nil {
			return nil, err
		}
		b.label = s
		return nil, nil
	}
	b.ops["get_label"] = func(call.Args) (any, error) { return b.label, nil }

	return b, nil
}

// Press fires the button's listeners. Disabled buttons ignore presses.
func (b *Button) Press() {
	if !b.enabled {
		return
	}
	b.fireListeners()
}

// Enabled reports the current enabled state (owner goroutine only).
func (b *Button) Enabled() bool { return b.enabled }

// Label returns the current label text (owner goroutine only).
func (b *Button) Label() string { return b.label }

func (b *Button) Focusable() bool { return true }
func (b *Button) Hotkey() string  { return b.hotkey }
func (b *Button) Tick()           {}

func (b *Button) View(focused bool) string {
	style := buttonStyle
	switch {
	case !b.enabled:
		style = buttonDisabledStyle
	case focused:
		style = buttonFocusedStyle
	}
	if b.bgColor != "" && b.enabled {
		style = style.Background(lipgloss.Color(b.bgColor))
	}
	if b.geom.Width > 0 {
		style = style.Width(b.geom.Width)
	}
	label := b.label
	if b.hotkey != "" {
		label += "  [" + b.hotkey + "]"
	}
	return style.Render(label)
}
