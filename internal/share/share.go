// Package share builds the customer-facing message for an issued key and
// the messenger links that carry it.
package share

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pfkeygen/internal/history"
)

// Channels accepted by the CLI and API.
const (
	ChannelText     = "text"
	ChannelWhatsApp = "whatsapp"
	ChannelTelegram = "telegram"
)

const (
	whatsAppBase = "https://wa.me/?text="
	telegramBase = "https://t.me/share/url?text="
)

// Message returns the activation message sent to the customer.
func Message(r history.Record) string {
	customer := r.CustomerLabel
	if customer == "" {
		customer = history.AnonymousLabel
	}

	var b strings.Builder
	b.WriteString("🔐 *PromptForge License*\n\n")
	fmt.Fprintf(&b, "Hi %s! 👋\n\n", customer)
	b.WriteString("Your license key is ready:\n")
	fmt.Fprintf(&b, "`%s`\n\n", r.Key)
	fmt.Fprintf(&b, "📅 Valid until: %s\n\n", r.Expiry)
	b.WriteString("*How to activate:*\n")
	b.WriteString("1. Open PromptForge extension\n")
	b.WriteString("2. Copy your Machine ID\n")
	b.WriteString("3. Enter the license key above\n")
	b.WriteString("4. Click \"Activate License\"\n\n")
	b.WriteString("Thank you for using PromptForge! ✨\n\n")
	b.WriteString("© Muhammad Anggi")
	return b.String()
}

// WhatsAppURL returns a wa.me link that pre-fills msg.
func WhatsAppURL(msg string) string {
	return whatsAppBase + encode(msg)
}

// TelegramURL returns a t.me share link that pre-fills msg.
func TelegramURL(msg string) string {
	return telegramBase + encode(msg)
}

// Links holds every outbound form of one message.
type Links struct {
	Message  string `json:"message"`
	WhatsApp string `json:"whatsapp"`
	Telegram string `json:"telegram"`
}

// For builds the message and links for r.
func For(r history.Record) Links {
	msg := Message(r)
	return Links{Message: msg, WhatsApp: WhatsAppURL(msg), Telegram: TelegramURL(msg)}
}

// ValidChannel reports whether Render accepts channel.
func ValidChannel(channel string) bool {
	switch channel {
	case ChannelText, ChannelWhatsApp, ChannelTelegram:
		return true
	}
	return false
}

// Render returns what channel should print for r.
func Render(r history.Record, channel string) (string, error) {
	switch channel {
	case ChannelText:
		return Message(r), nil
	case ChannelWhatsApp:
		return WhatsAppURL(Message(r)), nil
	case ChannelTelegram:
		return TelegramURL(Message(r)), nil
	default:
		return "", fmt.Errorf("unknown share channel %q", channel)
	}
}

// encode escapes like encodeURIComponent so spaces become %20, not +.
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
