package notify

import (
	"context"
	stderrors "errors"

	"roadmapboard/ports"
)

// Multi delivers every message to all non-nil notifiers. It returns nil when
// none are given.
func Multi(notifiers ...ports.Notifier) ports.Notifier {
	var active []ports.Notifier
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}
	return multiNotifier(active)
}

type multiNotifier []ports.Notifier

func (m multiNotifier) Notify(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
