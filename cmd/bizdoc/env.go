package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-bizdoc/internal/config"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// newRenderer builds the renderer for render and serve. Tests swap it
	// to avoid launching a browser.
	newRenderer rendererFactory
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Getenv:      os.Getenv,
		newRenderer: newRenderer,
	}
}

// loadConfig loads the named config, or the defaults when name is empty.
// BIZDOC_CONFIG is used when no flag is given.
func loadConfig(name string, env *Environment) (*config.Config, error) {
	if name == "" {
		name = env.Getenv("BIZDOC_CONFIG")
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(name)
}
