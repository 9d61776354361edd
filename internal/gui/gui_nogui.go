//go:build nogui
// +build nogui

package gui

import (
	"nordify/internal/config"
	"nordify/internal/errors"
	"nordify/internal/session"
)

// Run is a stub for builds with the GUI disabled.
func Run(s *session.Session, cfg *config.Config) error {
	return errors.New("GUI not available in this build, use the terminal interface")
}

// Available returns whether the GUI is available in this build
func Available() bool {
	return false
}
