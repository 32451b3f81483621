package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
)

// DryRunNotifier prints what would be sent without actually posting
type DryRunNotifier struct {
	w     io.Writer
	count int
}

// NewDryRunNotifier creates a dry-run notifier writing to w (stdout when nil)
func NewDryRunNotifier(w io.Writer) *DryRunNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &DryRunNotifier{w: w}
}

// Notify prints the message
func (n *DryRunNotifier) Notify(ctx context.Context, destination, message string) error {
	n.count++
	if destination == "" {
		destination = "(default)"
	}
	_, err := fmt.Fprintf(n.w, "--- Message %d to %s ---\n%s\n\n(Length: %d characters)\n\n",
		n.count, destination, message, len([]rune(message)))
	return err
}
