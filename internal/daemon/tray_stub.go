//go:build !windows
// +build !windows

package daemon

import (
	"errors"

	"go.uber.org/zap"
)

// TrayApp is unavailable outside Windows
type TrayApp struct{}

// NewTrayApp always fails on this platform; the daemon falls back to console mode
func NewTrayApp(daemon *Daemon, logger *zap.Logger) (*TrayApp, error) {
	return nil, errors.New("system tray is only supported on Windows")
}

func (t *TrayApp) Run()                               {}
func (t *TrayApp) Stop()                              {}
func (t *TrayApp) ShowNotification(title, msg string) {}
