package order

import "bazarino-order-bot/internal/pkg/model"

type RequestNewOrder struct {
	Name    string
	Address string
	Phone   string
	Product string
	Qty     string
	Notes   string
	Handle  string
}

type ResponseOrder struct {
	Reference string
	Record    model.OrderRecord
}

type DBOrder struct {
	CreatedAt string `db:"created_at"`
	Name      string `db:"name"`
	Address   string `db:"address"`
	Phone     string `db:"phone"`
	Product   string `db:"product"`
	Qty       string `db:"qty"`
	Notes     string `db:"notes"`
	Handle    string `db:"handle"`
}

type RequestNewUpload struct {
	UserID int64
	Handle string
	FileID string
	Note   string
}

type ResponseUpload struct {
	Record model.UploadRecord
}

type DBUpload struct {
	CreatedAt string `db:"created_at"`
	UserID    int64  `db:"user_id"`
	Handle    string `db:"handle"`
	FileID    string `db:"file_id"`
	Note      string `db:"note"`
}
