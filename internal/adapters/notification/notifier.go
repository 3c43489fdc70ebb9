// Package notification provides desktop notifications and the break chime.
package notification

import (
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/unfocus/internal/config"
	"github.com/xvierd/unfocus/internal/ports"
)

// ErrDisabled is returned when notifications are switched off in config.
var ErrDisabled = errors.New("notifications disabled in config")

// ErrUnavailable is returned when no notification service can be reached.
var ErrUnavailable = errors.New("no desktop notification service found")

// Notifier handles desktop notifications.
type Notifier struct {
	cfg    *config.NotificationConfig
	logger *slog.Logger
	send   func(title, body string) error
	probe  func() error
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		cfg:    cfg,
		logger: logger,
		send: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
		probe: probeService,
	}
}

// Notify displays a desktop notification in the background. A title set in
// config replaces the given one.
func (n *Notifier) Notify(title, body string) error {
	if !n.IsEnabled() {
		return nil
	}
	if n.cfg.Title != "" {
		title = n.cfg.Title
	}

	send, logger := n.send, n.logger
	go func() {
		if err := send(title, body); err != nil {
			logger.Warn("failed to send notification", "error", err)
		}
	}()
	return nil
}

// RequestPermission checks that a notification service is reachable.
// Desktop platforms have no permission prompt, so this only probes.
func (n *Notifier) RequestPermission() error {
	if !n.IsEnabled() {
		return ErrDisabled
	}
	return n.probe()
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

// probeService reports whether beeep has something to talk to. On Linux it
// needs a session bus or a notify-send binary.
func probeService() error {
	if runtime.GOOS != "linux" {
		return nil
	}
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") != "" {
		return nil
	}
	if _, err := exec.LookPath("notify-send"); err == nil {
		return nil
	}
	return ErrUnavailable
}
