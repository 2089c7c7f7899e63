package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rapidgui/rapidgui/internal/app"
	"github.com/rapidgui/rapidgui/internal/config"
	"github.com/rapidgui/rapidgui/internal/log"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "run":
		os.Exit(runRun(args))
	case "config":
		os.Exit(runConfigNoun(args))
	case "version":
		fmt.Println("rapidgui", version)
		os.Exit(0)
	case "help", "-h", "--help":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `rapidgui - scriptable terminal GUI

Usage:
  rapidgui run [--config scene.yaml] [--log-level LEVEL] [--demo]
  rapidgui config hash [--config scene.yaml]
  rapidgui version

Commands:
  run          Start the GUI from a scene file
  config hash  Write the .checksums manifest for a scene file
  version      Print the version
`)
}

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "example.yaml", "scene file path")
	logLevel := fs.String("log-level", "", "override the scene's log level")
	demo := fs.Bool("demo", false, "run the built-in demo script")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if *logLevel != "" {
		cfg.App.LogLevel = *logLevel
	}
	log.Setup(cfg.App.LogLevel)

	a, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	a.Start()
	if *demo {
		if err := startDemoScript(a); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}

	if err := a.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func runConfigNoun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: rapidgui config hash [--config scene.yaml]")
		return 1
	}
	switch args[0] {
	case "hash":
		return runConfigHash(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown config subcommand %q\n", args[0])
		return 1
	}
}

func runConfigHash(args []string) int {
	fs := flag.NewFlagSet("hash", flag.ExitOnError)
	configPath := fs.String("config", "example.yaml", "scene file path")
	_ = fs.Parse(args)

	if err := config.WriteManifest(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	hash, err := config.Fingerprint(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("wrote .checksums (%s = %s)\n", *configPath, hash[:12])
	return 0
}
