package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderRecordRow(t *testing.T) {
	createdAt := time.Date(2026, 10, 17, 12, 30, 5, 0, time.FixedZone("CEST", 2*60*60))

	tests := []struct {
		name   string
		handle string
		want   string
	}{
		{name: "with handle", handle: "@alihandle", want: "@alihandle"},
		{name: "without handle", handle: "", want: HandlePlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := OrderRecord{
				CreatedAt: createdAt,
				Name:      "Ali",
				Address:   "Via Roma 1",
				Phone:     "3331234567",
				Product:   "Rice 5kg",
				Qty:       "2",
				Notes:     "none",
				Handle:    tt.handle,
			}

			assert.Equal(t, []string{
				"2026-10-17 10:30:05",
				"Ali",
				"Via Roma 1",
				"3331234567",
				"Rice 5kg",
				"2",
				"none",
				tt.want,
			}, record.Row())
		})
	}
}

func TestUploadRecordRow(t *testing.T) {
	record := UploadRecord{
		CreatedAt: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
		UserID:    7,
		FileID:    "AgACAgQ",
		Note:      "receipt",
	}

	assert.Equal(t, []string{"2026-10-17 09:00:00", "7", HandlePlaceholder, "AgACAgQ", "receipt"}, record.Row())

	record.Handle = "@alihandle"
	assert.Equal(t, "@alihandle", record.Row()[2])
}
