// Package telegram sends calendar notifications through the Telegram Bot API.
//
// Messages use HTML parse mode. FormatWindow and friends build the Spanish message
// bodies and escape every value taken from the document; Chunk splits long bodies
// to fit Telegram's per-message limit.
//
// Authentication requires a bot token (from @BotFather) and a chat ID.
package telegram
