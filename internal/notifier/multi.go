package notifier

import (
	"context"
	"errors"
)

// Multi delivers each message to every wrapped notifier
type Multi []Notifier

// Notify sends message through all notifiers and joins their errors
func (m Multi) Notify(ctx context.Context, destination, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, destination, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
