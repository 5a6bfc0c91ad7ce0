// Package notification handles sending notifications to external services.
package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/containrrr/shoutrrr"

	"github.com/snadboy/sshdocker/internal/config"
	"github.com/snadboy/sshdocker/internal/docker"
)

// Notifier handles sending notifications via Shoutrrr
type Notifier struct {
	enabled     bool
	shoutrrrURL string
}

// NewNotifier initializes a Shoutrrr-based notification client from config.
func NewNotifier(cfg *config.Config) (*Notifier, error) {
	if !cfg.Notification.Enabled {
		return &Notifier{enabled: false}, nil
	}

	url := strings.TrimSpace(cfg.Notification.ShoutrrURL)
	if url == "" {
		return &Notifier{enabled: false}, fmt.Errorf("notification enabled but shoutrrr_url not configured: provide URL in format 'service://credentials' (e.g., slack://token@channel, discord://token@webhookid)")
	}

	return &Notifier{
		enabled:     true,
		shoutrrrURL: cfg.Notification.ShoutrrURL,
	}, nil
}

// SendEvent delivers one container lifecycle event via the configured
// notification channel.
func (n *Notifier) SendEvent(ev docker.Event) error {
	if !n.enabled {
		return nil // Notifications disabled
	}

	when := time.Unix(ev.Time, 0).Format("2006-01-02 15:04:05")
	if ev.Time == 0 {
		when = time.Now().Format("2006-01-02 15:04:05")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🐳 Docker event on %s\n", ev.Host))
	sb.WriteString(fmt.Sprintf("📅 Time: %s\n", when))
	sb.WriteString(fmt.Sprintf("🔔 %s %s", ev.Type, ev.Action))
	if name := ev.ContainerName(); name != "" {
		sb.WriteString(fmt.Sprintf("\n📦 Container: %s", name))
	}
	if image := ev.Actor.Attributes["image"]; image != "" {
		sb.WriteString(fmt.Sprintf("\n🖼  Image: %s", image))
	}

	err := shoutrrr.Send(n.shoutrrrURL, sb.String())
	if err != nil {
		// Extract service type from URL (e.g., "slack://..." -> "slack")
		serviceType := "unknown"
		if idx := strings.Index(n.shoutrrrURL, "://"); idx > 0 {
			serviceType = n.shoutrrrURL[:idx]
		}
		return fmt.Errorf("notification failed to send via %s (host: %s, action: %s): %w", serviceType, ev.Host, ev.Action, err)
	}

	return nil
}

// IsEnabled reports whether notifications are configured and active.
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}
