package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/pfrederiksen/canal-matches/internal/config"
)

const (
	// MaxTweetLength is the Twitter limit for one status
	MaxTweetLength = 280

	hashtags = "\n\n#CanalMatches"
)

// TwitterNotifier posts messages as tweets
type TwitterNotifier struct {
	client   *twitter.Client
	delay    time.Duration
	lastPost time.Time
}

// NewTwitterNotifier creates a new Twitter notifier from OAuth1 credentials
func NewTwitterNotifier(creds config.Twitter) (*TwitterNotifier, error) {
	if !creds.Enabled() {
		return nil, fmt.Errorf("missing required Twitter credentials")
	}

	oauthConfig := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := oauthConfig.Client(oauth1.NoContext, token)

	return newTwitterNotifier(httpClient, 2*time.Second), nil
}

func newTwitterNotifier(httpClient *http.Client, delay time.Duration) *TwitterNotifier {
	return &TwitterNotifier{
		client: twitter.NewClient(httpClient),
		delay:  delay,
	}
}

// Notify posts message as one tweet, markup removed and truncated to the length limit.
// Consecutive posts are spaced by the notifier's delay.
func (n *TwitterNotifier) Notify(ctx context.Context, destination, message string) error {
	if wait := n.delay - time.Since(n.lastPost); !n.lastPost.IsZero() && wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	tweet := FormatTweet(message)

	_, _, err := n.client.Statuses.Update(tweet, nil)
	n.lastPost = time.Now()
	if err != nil {
		return fmt.Errorf("failed to post tweet: %w", err)
	}

	return nil
}

// FormatTweet converts a Telegram HTML message into tweet text
func FormatTweet(message string) string {
	return truncate(PlainText(message), MaxTweetLength-len(hashtags)) + hashtags
}
