// Package notifier delivers calendar messages to Telegram, Twitter or a writer.
//
// Every implementation reports pass/fail per message. Messages are written as
// Telegram HTML; channels without markup receive the plain-text rendering.
package notifier
