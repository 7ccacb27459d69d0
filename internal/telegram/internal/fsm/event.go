package fsm

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Sender is the subset of the Bot API used by conversations. *bot.Bot satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

type Event struct {
	UpdateID     int64
	UserID       int64
	ChatID       int64
	Username     string
	Text         string
	CallbackID   string
	CallbackData string
	Photo        *Photo
}

type Photo struct {
	FileID   string
	FileSize int
	Caption  string
}

func NewEvent(update *models.Update) (Event, bool) {
	if update == nil {
		return Event{}, false
	}

	if msg := update.Message; msg != nil && msg.From != nil {
		event := Event{
			UpdateID: update.ID,
			UserID:   msg.From.ID,
			ChatID:   msg.Chat.ID,
			Username: msg.From.Username,
			Text:     msg.Text,
		}
		// Telegram lists the sizes of a photo in ascending order.
		if n := len(msg.Photo); n > 0 {
			event.Photo = &Photo{
				FileID:   msg.Photo[n-1].FileID,
				FileSize: msg.Photo[n-1].FileSize,
				Caption:  msg.Caption,
			}
		}
		return event, true
	}

	if query := update.CallbackQuery; query != nil {
		chatID := query.From.ID
		if query.Message.Message != nil {
			chatID = query.Message.Message.Chat.ID
		}
		return Event{
			UpdateID:     update.ID,
			UserID:       query.From.ID,
			ChatID:       chatID,
			Username:     query.From.Username,
			CallbackID:   query.ID,
			CallbackData: query.Data,
		}, true
	}

	return Event{}, false
}

func (e Event) IsCommand() bool {
	return strings.HasPrefix(e.Text, "/")
}

func (e Event) IsCallback() bool {
	return e.CallbackID != ""
}

func (e Event) HasPhoto() bool {
	return e.Photo != nil
}

// Handle returns the @username of the sender, or "" when the user has none.
func (e Event) Handle() string {
	if e.Username == "" {
		return ""
	}
	return "@" + e.Username
}
