package presentation

import (
	"github.com/go-telegram/bot/models"
)

const (
	MenuOrder   = "🛒 Order"
	MenuPhoto   = "📷 Send photo"
	MenuAbout   = "ℹ️ About"
	MenuContact = "📞 Contact"

	CallbackCancel = "cancel"
	CallbackSkip   = "skip"
)

func MenuKbd() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: MenuOrder}, {Text: MenuPhoto}},
			{{Text: MenuAbout}, {Text: MenuContact}},
		},
		ResizeKeyboard: true,
	}
}

func RemoveKbd() *models.ReplyKeyboardRemove {
	return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
}

func CancelKbd() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "❌ Cancel", CallbackData: CallbackCancel}},
		},
	}
}

func SkipCancelKbd() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "⏩ Skip", CallbackData: CallbackSkip}},
			{{Text: "❌ Cancel", CallbackData: CallbackCancel}},
		},
	}
}
