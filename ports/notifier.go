package ports

import "context"

// Notifier announces the outcome of a load
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
