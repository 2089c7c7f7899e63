package main

import (
	"errors"
	"math/rand"
	"time"

	"github.com/rapidgui/rapidgui/internal/app"
	"github.com/rapidgui/rapidgui/internal/call"
	"github.com/rapidgui/rapidgui/internal/log"
)

// startDemoScript is the control-side demo: pressing the button disables
// it, ramps the progress bar while "working", then re-enables it. It
// expects the widgets declared in example.yaml.
func startDemoScript(a *app.App) error {
	btn, err := a.Lookup("mybutton")
	if err != nil {
		return err
	}
	bar, err := a.Lookup("myprogressbar")
	if err != nil {
		return err
	}

	return btn.OnEvent(func() {
		runHeavyWork(btn, bar)
	})
}

func runHeavyWork(btn, bar *call.Proxy) {
	// The GUI may go away at any point while we work; that is a normal
	// way for this script to end, not an error worth reporting.
	script := func() error {
		if err := btn.Call("set_enabled", false); err != nil {
			return err
		}
		if err := btn.Call("set_label", "Working..."); err != nil {
			return err
		}

		for i := 0; i <= 20; i++ {
			if err := bar.Call("set_pct", i*5); err != nil {
				return err
			}
			doHeavyWork()
		}

		pct, err := bar.Get("get_pct")
		if err != nil {
			return err
		}
		log.Info("done doing heavy work", "pct", pct)

		if err := btn.Call("set_label", "Do work"); err != nil {
			return err
		}
		return btn.Call("set_enabled", true)
	}

	if err := script(); err != nil {
		if errors.Is(err, call.ErrOwnerDead) {
			return
		}
		log.Error("demo script failed", "error", err)
	}
}

func doHeavyWork() {
	time.Sleep(time.Duration(rand.Intn(300)) * time.Millisecond)
}
