package notifier

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/canal-matches/internal/telegram"
)

// messageSender is the part of telegram.Client the notifier uses
type messageSender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// TelegramNotifier posts messages to a Telegram chat
type TelegramNotifier struct {
	client messageSender
	chatID string
	maxLen int
}

// NewTelegramNotifier creates a notifier for chatID. maxLen <= 0 selects the Bot API limit.
func NewTelegramNotifier(client *telegram.Client, chatID string, maxLen int) *TelegramNotifier {
	if maxLen <= 0 {
		maxLen = telegram.MaxMessageLength
	}
	return &TelegramNotifier{client: client, chatID: chatID, maxLen: maxLen}
}

// Notify sends message, split into several posts when it exceeds the length limit.
// An empty destination selects the configured chat.
func (n *TelegramNotifier) Notify(ctx context.Context, destination, message string) error {
	chatID := destination
	if chatID == "" {
		chatID = n.chatID
	}

	chunks := telegram.Chunk(message, n.maxLen)
	for i, chunk := range chunks {
		if err := n.client.SendMessage(ctx, chatID, chunk); err != nil {
			return fmt.Errorf("sending part %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return nil
}
