package notifier

import (
	"context"
	"html"
	"regexp"
	"strings"
)

// Notifier defines the interface for delivering one message
type Notifier interface {
	// Notify delivers message to destination. Implementations with a fixed
	// destination ignore the argument.
	Notify(ctx context.Context, destination, message string) error
}

// SendAll delivers messages in order and returns one error slot per message
// (nil on success). Delivery continues after a failure unless ctx is done.
func SendAll(ctx context.Context, n Notifier, destination string, messages []string) []error {
	errs := make([]error, len(messages))
	for i, msg := range messages {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(messages); j++ {
				errs[j] = err
			}
			break
		}
		errs[i] = n.Notify(ctx, destination, msg)
	}
	return errs
}

// Failures returns the number of failed messages and the first error
func Failures(errs []error) (int, error) {
	var first error
	failed := 0
	for _, err := range errs {
		if err == nil {
			continue
		}
		if first == nil {
			first = err
		}
		failed++
	}
	return failed, first
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// PlainText strips HTML markup from a Telegram message
func PlainText(message string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(message, ""))
}

// truncate shortens s to at most max runes, ending with an ellipsis when cut
func truncate(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max-3]) + "..."
}
