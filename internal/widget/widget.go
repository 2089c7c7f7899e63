// Package widget implements the owner-side GUI objects. Widgets are
// mutated only on the owner goroutine; scripts reach them exclusively
// through their call queues.
//
// Each widget exposes a closed op table — the explicit set of operations
// scripts may invoke by name — instead of resolving names by reflection.
// An op name missing from the table is a scripting bug and surfaces as a
// fatal dispatch error.
package widget

import (
	"fmt"

	"github.com/rapidgui/rapidgui/internal/call"
)

// Widget is one addressable GUI object serviced by the dispatch tick.
type Widget interface {
	ID() string
	Type() string
	Queue() *call.Queue
	Ops() map[string]call.OpFunc
	AddListener(f func())

	// View renders the widget; Tick advances one animation step. Both run
	// on the owner goroutine only.
	View(focused bool) string
	Tick()

	// Focusable widgets participate in tab cycling; Press is the
	// keyboard/mouse activation path and fires registered listeners.
	Focusable() bool
	Press()
	Hotkey() string
}

// Geometry is the shared placement state inherited from the rectangle
// ancestry of every widget type.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Base carries the state and ops common to all widget types.
type Base struct {
	id        string
	typ       string
	geom      Geometry
	bgColor   string
	queue     *call.Queue
	listeners []func()
	ops       map[string]call.OpFunc
}

func newBase(id, typ string, queueCapacity int) *Base {
	b := &Base{
		id:    id,
		typ:   typ,
		queue: call.NewQueue(queueCapacity),
		ops:   make(map[string]call.OpFunc),
	}
	b.registerGeometryOps()
	return b
}

func (b *Base) ID() string                  { return b.id }
func (b *Base) Type() string                { return b.typ }
func (b *Base) Queue() *call.Queue          { return b.queue }
func (b *Base) Ops() map[string]call.OpFunc { return b.ops }
func (b *Base) AddListener(f func())        { b.listeners = append(b.listeners, f) }
func (b *Base) Hotkey() string              { return "" }

func (b *Base) fireListeners() {
	for _, f := range b.listeners {
		f()
	}
}

func (b *Base) registerGeometryOps() {
	b.ops["get_width"] = func(call.Args) (any, error) { return b.geom.Width, nil }
	b.ops["get_height"] = func(call.Args) (any, error) { return b.geom.Height, nil }
	b.ops["set_width"] = func(a call.Args) (any, error) {
		w, err := intArg(a, 0)
		if err != nil {
			return nil, err
		}
		b.geom.Width = w
		return nil, nil
	}
	b.ops["set_height"] = func(a call.Args) (any, error) {
		h, err := intArg(a, 0)
		if err != nil {
			return nil, err
		}
		b.geom.Height = h
		return nil, nil
	}
	b.ops["get_center"] = func(call.Args) (any, error) {
		return []int{b.geom.X + b.geom.Width/2, b.geom.Y + b.geom.Height/2}, nil
	}
	b.ops["set_center"] = func(a call.Args) (any, error) {
		x, err := intArg(a, 0)
		if err != nil {
			return nil, err
		}
		y, err := intArg(a, 1)
		if err != nil {
			return nil, err
		}
		b.geom.X = x - b.geom.Width/2
		b.geom.Y = y - b.geom.Height/2
		return nil, nil
	}
	b.ops["set_background_color"] = func(a call.Args) (any, error) {
		c, err := stringArg(a, 0)
		if err != nil {
			return nil, err
		}
		b.bgColor = c
		return nil, nil
	}
}

// Argument coercion. Scripts hand over untyped values; numbers may arrive
// as any Go numeric type when they came through YAML or literal script
// code.

func arg(a call.Args, i int) (any, error) {
	if i >= len(a.Pos) {
		return nil, fmt.Errorf("missing argument %d", i)
	}
	return a.Pos[i], nil
}

func intArg(a call.Args, i int) (int, error) {
	v, err := arg(a, i)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case float32:
		return int(n), nil
	default:
		return 0, fmt.Errorf("argument %d: want number, got %T", i, v)
	}
}

func floatArg(a call.Args, i int) (float64, error) {
	v, err := arg(a, i)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("argument %d: want number, got %T", i, v)
	}
}

func boolArg(a call.Args, i int) (bool, error) {
	v, err := arg(a, i)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("argument %d: want bool, got %T", i, v)
	}
	return b, nil
}

func stringArg(a call.Args, i int) (string, error) {
	v, err := arg(a, i)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %d: want string, got %T", i, v)
	}
	return s, nil
}
