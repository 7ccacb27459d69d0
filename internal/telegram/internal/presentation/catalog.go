package presentation

import (
	"fmt"
)

const (
	KeyWelcome = "WELCOME"
	KeyAboutUs = "ABOUT_US"
	KeyContact = "CONTACT"
	KeyPrivacy = "PRIVACY"
)

var defaultMessages = map[string]string{
	KeyWelcome: "<b>👋 Welcome to Bazarino!</b>\n\n" +
		"Tap <b>🛒 Order</b> or send /order to place an order.\n" +
		"Send /cancel at any time to abandon it.",
	KeyAboutUs: "<b>ℹ️ Bazarino</b>\n\nPersian and Italian groceries delivered to your door.",
	KeyContact: "<b>📞 Contact</b>\n\nReply here and an operator will get back to you.",
	KeyPrivacy: "<b>🔒 Privacy</b>\n\nWe store only the details you enter while ordering and use them to deliver your order.",
}

// Catalog holds the static texts served by the bot. It is read-only after
// NewCatalog. Keys missing from both the overrides and the defaults render as "[KEY]".
type Catalog struct {
	messages map[string]string
}

func NewCatalog(overrides map[string]string) *Catalog {
	messages := make(map[string]string, len(defaultMessages)+len(overrides))
	for k, v := range defaultMessages {
		messages[k] = v
	}
	for k, v := range overrides {
		messages[k] = v
	}
	return &Catalog{messages: messages}
}

func (c *Catalog) Get(key string) string {
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	return fmt.Sprintf("[%s]", key)
}
