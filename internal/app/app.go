// Package app wires the scene, the owner loop, and the script-facing
// surface together. The owner loop (a bubbletea program) runs on its own
// goroutine; script code keeps the goroutine that called Start and talks
// to widgets through proxies from Lookup.
package app

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rapidgui/rapidgui/internal/call"
	"github.com/rapidgui/rapidgui/internal/config"
	"github.com/rapidgui/rapidgui/internal/inspect"
	"github.com/rapidgui/rapidgui/internal/log"
)

// App is the top-level handle: owner loop plus proxy registry.
type App struct {
	scene  *Scene
	cancel context.CancelFunc

	prog    *tea.Program
	done    chan struct{}
	runOnce sync.Once
	runErr  error
}

// Load parses the scene file and builds the app, ready to Start.
func Load(path string) (*App, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log.Setup(cfg.App.LogLevel)
	return New(cfg)
}

// New builds the app from an already-parsed config.
func New(cfg *config.Config) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	scene, err := BuildScene(ctx, cfg)
	if err != nil {
		cancel()
		return nil, err
	}

	a := &App{
		scene:  scene,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	if cfg.Debug.Listen != "" {
		srv := inspect.New(cfg.Debug.Listen, scene.Dispatcher, scene.Hub)
		go func() {
			if err := srv.Start(ctx); err != nil && ctx.Err() == nil {
				log.Warn("inspect server stopped", "error", err)
			}
		}()
	}

	return a, nil
}

// Start launches the owner loop on its own goroutine. Proxies obtained
// from Lookup become live immediately; they fail with ErrOwnerDead once
// the loop exits. opts is for tests (headless renderer/input).
func (a *App) Start(opts ...tea.ProgramOption) {
	a.runOnce.Do(func() {
		a.prog = tea.NewProgram(NewModel(a.scene), opts...)
		go a.runOwnerLoop()
	})
}

func (a *App) runOwnerLoop() {
	defer close(a.done)
	defer a.cancel()
	defer a.scene.Close()

	final, err := a.prog.Run()
	if err != nil {
		a.runErr = fmt.Errorf("owner loop: %w", err)
		return
	}
	if m, ok := final.(Model); ok {
		a.runErr = m.FatalErr()
	}
}

// Lookup returns the proxy for a widget identifier.
func (a *App) Lookup(id string) (*call.Proxy, error) {
	return a.scene.Registry.Lookup(id)
}

// MustLookup is Lookup for wiring code where a missing identifier is a
// programming error.
func (a *App) MustLookup(id string) *call.Proxy {
	p, err := a.Lookup(id)
	if err != nil {
		panic(err)
	}
	return p
}

// Quit asks the owner loop to shut down cleanly. Safe from any goroutine.
func (a *App) Quit() {
	if a.prog != nil {
		a.prog.Quit()
	}
}

// Wait blocks until the owner loop exits and returns its fatal error, if
// any. A clean quit returns nil.
func (a *App) Wait() error {
	<-a.done
	return a.runErr
}

// Alive reports whether the owner loop is still running.
func (a *App) Alive() bool {
	return a.scene.Owner.Alive()
}
