package app

import (
	"context"
	"fmt"

	"github.com/rapidgui/rapidgui/internal/call"
	"github.com/rapidgui/rapidgui/internal/config"
	"github.com/rapidgui/rapidgui/internal/dispatch"
	"github.com/rapidgui/rapidgui/internal/events"
	"github.com/rapidgui/rapidgui/internal/journal"
	"github.com/rapidgui/rapidgui/internal/log"
	"github.com/rapidgui/rapidgui/internal/widget"
)

// builders maps the scene file's type tags to widget constructors.
var builders = map[string]func(id string, queueCapacity int, props map[string]any) (widget.Widget, error){
	"button": func(id string, qc int, p map[string]any) (widget.Widget, error) {
		return widget.NewButton(id, qc, p)
	},
	"progressbar": func(id string, qc int, p map[string]any) (widget.Widget, error) {
		return widget.NewProgressBar(id, qc, p)
	},
	"label": func(id string, qc int, p map[string]any) (widget.Widget, error) {
		return widget.NewLabel(id, qc, p)
	},
}

// Scene is everything the owner loop services: the widgets in declaration
// order, their dispatcher, and the proxies handed to scripts. Built once
// at startup; the registry never changes afterwards.
type Scene struct {
	Config     *config.Config
	Widgets    []widget.Widget
	Registry   *call.Registry
	Dispatcher *dispatch.Dispatcher
	Pool       *dispatch.Pool
	Hub        *events.Hub
	Owner      *call.Liveness
	Journal    *journal.Journal
}

// BuildScene instantiates the declared components and wires queues,
// proxies, registry and dispatcher around them.
func BuildScene(ctx context.Context, cfg *config.Config) (*Scene, error) {
	s := &Scene{
		Config: cfg,
		Hub:    events.NewHub(256),
		Owner:  call.NewLiveness(),
		Pool:   dispatch.NewPool(dispatch.DefaultPoolWorkers),
	}

	logger := log.WithComponent("scene")
	proxies := make(map[string]*call.Proxy, len(cfg.Components))
	targets := make([]dispatch.Target, 0, len(cfg.Components))

	for _, comp := range cfg.Components {
		build, ok := builders[comp.Meta.Type]
		if !ok {
			return nil, fmt.Errorf("unknown GUI component type %q (component %q)", comp.Meta.Type, comp.Meta.Identifier)
		}
		w, err := build(comp.Meta.Identifier, cfg.App.QueueCapacity, comp.Properties)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", comp.Meta.Identifier, err)
		}
		s.Widgets = append(s.Widgets, w)
		targets = append(targets, w)
		proxies[w.ID()] = call.NewProxy(w.ID(), w.Queue(), s.Owner, log.Get())
		logger.Debug("component built", "id", w.ID(), "type", w.Type())
	}

	s.Registry = call.NewRegistry(proxies)

	var recorder dispatch.Recorder
	if cfg.Journal.Path != "" {
		j, err := journal.Open(ctx, cfg.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("open dispatch journal: %w", err)
		}
		s.Journal = j
		recorder = j
	}

	s.Dispatcher = dispatch.New(targets, s.Pool, s.Hub, recorder)
	return s, nil
}

// Close releases owner-side resources after the loop has exited.
func (s *Scene) Close() {
	s.Owner.MarkDead()
	s.Pool.Close()
	if s.Journal != nil {
		_ = s.Journal.Close()
	}
}
