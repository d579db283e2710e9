package notify

import "context"

// Notifier delivers events to a downstream sink (HTTP hook, log, etc).
type Notifier interface {
	ID() string
	Type() string
	Notify(ctx context.Context, evt Event) error
}
