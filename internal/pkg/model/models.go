package model

import (
	"strconv"
	"time"
)

// HandlePlaceholder is written in place of a missing Telegram username.
const HandlePlaceholder = "-"

const TimestampLayout = "2006-01-02 15:04:05"

type OrderRecord struct {
	CreatedAt time.Time
	Name      string
	Address   string
	Phone     string
	Product   string
	Qty       string
	Notes     string
	Handle    string
}

func (r OrderRecord) Timestamp() string {
	return r.CreatedAt.UTC().Format(TimestampLayout)
}

func (r OrderRecord) HandleOrPlaceholder() string {
	if r.Handle == "" {
		return HandlePlaceholder
	}
	return r.Handle
}

// Row returns the record cells in row-store column order.
func (r OrderRecord) Row() []string {
	return []string{
		r.Timestamp(),
		r.Name,
		r.Address,
		r.Phone,
		r.Product,
		r.Qty,
		r.Notes,
		r.HandleOrPlaceholder(),
	}
}

// UploadRecord is a photo a user sent to the shop. The image stays on Telegram
// and is referenced by its file ID.
type UploadRecord struct {
	CreatedAt time.Time
	UserID    int64
	Handle    string
	FileID    string
	Note      string
}

func (r UploadRecord) Timestamp() string {
	return r.CreatedAt.UTC().Format(TimestampLayout)
}

func (r UploadRecord) HandleOrPlaceholder() string {
	if r.Handle == "" {
		return HandlePlaceholder
	}
	return r.Handle
}

// Row returns the record cells in uploads column order.
func (r UploadRecord) Row() []string {
	return []string{
		r.Timestamp(),
		strconv.FormatInt(r.UserID, 10),
		r.HandleOrPlaceholder(),
		r.FileID,
		r.Note,
	}
}
