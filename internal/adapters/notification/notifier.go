// Package notification provides desktop notification utilities.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/mzavel/fasting-cli/internal/config"
	"github.com/mzavel/fasting-cli/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg *config.NotificationConfig
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{cfg: cfg}
}

// Info displays an informational notification if enabled.
func (n *Notifier) Info(title, message string) {
	n.notify(title, message)
}

// Success displays a completion notification if enabled.
func (n *Notifier) Success(title, message string) {
	n.notify("✅ "+title, message)
}

// Error displays a failure notification if enabled.
func (n *Notifier) Error(title, message string) {
	n.notify("⚠️ "+title, message)
}

func (n *Notifier) notify(title, message string) {
	if n.cfg == nil || !n.cfg.Enabled {
		return
	}
	// Notification failures are non-fatal; the CLI output still carries
	// the same information.
	_ = beeep.Notify(title, message, "")
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}
