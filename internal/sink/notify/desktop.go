package notify

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"
)

// DefaultTitle is the desktop notification title.
const DefaultTitle = "Burner Alarm"

// DesktopNotifier shows an OS notification.
type DesktopNotifier struct {
	// title is the notification title.
	title string
	// send shows the notification; beeep.Notify in production.
	send func(title, message string) error
}

// NewDesktopNotifier creates a desktop notifier with the given title.
func NewDesktopNotifier(title string) *DesktopNotifier {
	if title == "" {
		title = DefaultTitle
	}

	return &DesktopNotifier{
		title: title,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Notify shows the message. The context is not consulted; the OS call
// returns quickly or fails.
func (n *DesktopNotifier) Notify(_ context.Context, message string) error {
	if err := n.send(n.title, message); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}

	return nil
}
