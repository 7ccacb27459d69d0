package presentation

import (
	"fmt"
	"html"
	"strings"

	"bazarino-order-bot/internal/order"
)

func GenericErrorMsg() string {
	return "<b>❌ Something went wrong, please try again later</b>"
}

func StateConversionErrorMsg() string {
	return "<b>❌ Could not load your previous answers. Please start over with /order</b>"
}

func StartOrderMsg() string {
	return "<b>🛒 New order</b>\n\nAnswer a few questions. Send /cancel at any time to stop."
}

func AskNameMsg() string {
	return "<b>👤 What is your full name?</b>"
}

func AskAddressMsg() string {
	return "<b>🏠 What is the delivery address?</b>"
}

func AskPhoneMsg() string {
	return "<b>📞 What is your phone number?</b>"
}

func AskProductMsg() string {
	return "<b>📦 Which product would you like?</b>"
}

func AskQtyMsg() string {
	return "<b>🔢 How many?</b>"
}

func AskNotesMsg() string {
	return "<b>💬 Any notes for the order?</b>\n\nPress Skip if there are none."
}

func OrderConfirmedMsg() string {
	return "<b>✔️ Thank you! Your order has been received.</b>\n\nWe will contact you shortly."
}

func OrderCancelledMsg() string {
	return "<b>❌ Order cancelled</b>"
}

func NothingToCancelMsg() string {
	return "<b>🔍 There is nothing to cancel</b>"
}

func OrderSaveErrorMsg() string {
	var sb strings.Builder
	sb.WriteString("<b>❌ We could not save your order.</b>")
	sb.WriteString(breakLine(2))
	sb.WriteString("Send your notes again (or press Skip) to retry, or /cancel to abandon the order.")
	return sb.String()
}

func OrderExpiredMsg() string {
	return "<b>⌛ Your unfinished order expired and was discarded</b>"
}

func AdminOrderMsg(data *order.ResponseOrder) string {
	record := data.Record
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>🛍 New order #%s</b>", html.EscapeString(data.Reference)))
	sb.WriteString(breakLine(2))
	sb.WriteString(fmt.Sprintf("<b>👤 Name:</b> %s", html.EscapeString(record.Name)))
	sb.WriteString(breakLine(1))
	sb.WriteString(fmt.Sprintf("<b>🏠 Address:</b> %s", html.EscapeString(record.Address)))
	sb.WriteString(breakLine(1))
	sb.WriteString(fmt.Sprintf("<b>📞 Phone:</b> %s", html.EscapeString(record.Phone)))
	sb.WriteString(breakLine(1))
	sb.WriteString(fmt.Sprintf("<b>📦 Product:</b> %s", html.EscapeString(record.Product)))
	sb.WriteString(breakLine(1))
	sb.WriteString(fmt.Sprintf("<b>🔢 Qty:</b> %s", html.EscapeString(record.Qty)))
	if record.Notes != "" {
		sb.WriteString(breakLine(1))
		sb.WriteString(fmt.Sprintf("<b>💬 Notes:</b> %s", html.EscapeString(record.Notes)))
	}
	sb.WriteString(breakLine(2))
	sb.WriteString(fmt.Sprintf("<b>✈️ Telegram:</b> %s", html.EscapeString(record.HandleOrPlaceholder())))
	sb.WriteString(breakLine(1))
	sb.WriteString(fmt.Sprintf("<b>🕒 Time:</b> %s", record.Timestamp()))
	return sb.String()
}

func AskPhotoMsg() string {
	return "<b>📷 Send the photo you want us to see</b>\n\nAdd a caption if you want to leave a note. Maximum size is 2 MB."
}

func PhotoExpectedMsg() string {
	return "<b>📷 Please send a photo, or /cancel to stop</b>"
}

func PhotoTooLargeMsg() string {
	return "<b>❌ The photo is too large.</b>\n\nThe maximum size is 2 MB."
}

func PhotoUploadedMsg() string {
	return "<b>✔️ Photo received, thank you!</b>\n\nAn operator will get back to you shortly."
}

func UploadErrorMsg() string {
	return "<b>❌ We could not save your photo, please try again later</b>"
}

func UploadCancelledMsg() string {
	return "<b>❌ Photo upload cancelled</b>"
}

func AdminPhotoCaption(data *order.ResponseUpload) string {
	record := data.Record
	from := record.HandleOrPlaceholder()
	if record.Handle == "" {
		from = fmt.Sprintf("id %d", record.UserID)
	}
	note := record.Note
	if note == "" {
		note = "no note"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>📷 Photo from %s</b>", html.EscapeString(from)))
	sb.WriteString(breakLine(1))
	sb.WriteString(fmt.Sprintf("<b>💬 Note:</b> %s", html.EscapeString(note)))
	sb.WriteString(breakLine(1))
	sb.WriteString(fmt.Sprintf("<b>🕒 Time:</b> %s", record.Timestamp()))
	return sb.String()
}

func breakLine(n int) string {
	return strings.Repeat("\n", n)
}
