package widget

import (
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/rapidgui/rapidgui/internal/call"
)

var barTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// ProgressBar shows a percentage from 0 to 100. The displayed fill eases
// toward the target a step per tick instead of jumping.
type ProgressBar struct {
	*Base
	pct   float64 // target, set by scripts
	shown float64 // what is currently drawn
	title string
	bar   progress.Model
}

// NewProgressBar builds a progress bar from scene properties.
func NewProgressBar(id string, queueCapacity int, p map[string]any) (*ProgressBar, error) {
	pr := props(p)
	if err := pr.checkKeys("x", "y", "width", "height", "pct", "title", "bar_color"); err != nil {
		return nil, err
	}

	pb := &ProgressBar{Base: newBase(id, "progressbar", queueCapacity)}

	var err error
	if pb.geom, err = pr.geometry(); err != nil {
		return nil, err
	}
	if pb.pct, err = pr.floatOr("pct", 0); err != nil {
		return nil, err
	}
	pb.pct = clampPct(pb.pct)
	pb.shown = pb.pct
	if pb.title, err = pr.stringOr("title", ""); err != nil {
		return nil, err
	}
	barColor, err := pr.stringOr("bar_color", "")
	if err != nil {
		return nil, err
	}

	opts := []progress.Option{progress.WithWidth(pb.geom.Width)}
	if barColor != "" {
		opts = append(opts, progress.WithSolidFill(barColor))
	} else {
		opts = append(opts, progress.WithDefaultGradient())
	}
	pb.bar = progress.New(opts...)

	pb.ops["set_pct"] = func(a call.Args) (any, error) {
		v, err := floatArg(a, 0)
		if err != nil {
			return nil, err
		}
		pb.pct = clampPct(v)
		return nil, nil
	}
	pb.ops["get_pct"] = func(call.Args) (any, error) { return int(pb.pct), nil }

	return pb, nil
}

// Tick moves the drawn fill halfway to the target, snapping once close
// enough that the remaining gap is invisible.
func (pb *ProgressBar) Tick() {
	if math.Abs(pb.pct-pb.shown) < 0.5 {
		pb.shown = pb.pct
		return
	}
	pb.shown = (pb.shown + pb.pct) / 2
}

// Pct returns the current target percentage (owner goroutine only).
func (pb *ProgressBar) Pct() int { return int(pb.pct) }

func (pb *ProgressBar) Focusable() bool { return false }
func (pb *ProgressBar) Press()          {}

func (pb *ProgressBar) View(bool) string {
	view := pb.bar.ViewAs(pb.shown / 100)
	if pb.title != "" {
		view = barTitleStyle.Render(pb.title) + "\n" + view
	}
	return view
}

func clampPct(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
