package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"bazarino-order-bot/internal/pkg/model"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	records []model.OrderRecord
	uploads []model.UploadRecord
	err     error
}

func (f *fakeRepo) AppendOrder(ctx context.Context, record model.OrderRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeRepo) AppendUpload(ctx context.Context, record model.UploadRecord) error {
	if f.err != nil {
		return f.err
	}
	f.uploads = append(f.uploads, record)
	return nil
}

func (f *fakeRepo) Close() error { return nil }

func validRequest() RequestNewOrder {
	return RequestNewOrder{
		Name:    "Ali",
		Address: "Via Roma 1",
		Phone:   "3331234567",
		Product: "Rice 5kg",
		Qty:     "2",
		Notes:   "none",
		Handle:  "@alihandle",
	}
}

func TestDefaultService_NewOrder(t *testing.T) {
	clk := clock.NewMock()
	clk.Set(time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC))
	repo := &fakeRepo{}
	svc := NewDefaultService(repo, clk)

	resp, err := svc.NewOrder(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, repo.records, 1)
	assert.Len(t, resp.Reference, 8)
	assert.Equal(t, []string{
		"2026-10-17 09:00:00", "Ali", "Via Roma 1", "3331234567", "Rice 5kg", "2", "none", "@alihandle",
	}, repo.records[0].Row())
	assert.Equal(t, repo.records[0], resp.Record)
}

func TestDefaultService_NewOrderEmptyNotes(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewDefaultService(repo, clock.NewMock())

	req := validRequest()
	req.Notes = ""
	req.Handle = ""

	_, err := svc.NewOrder(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, repo.records, 1)
	assert.Equal(t, model.HandlePlaceholder, repo.records[0].Row()[7])
}

func TestDefaultService_NewOrderEmptyField(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewDefaultService(repo, clock.NewMock())

	req := validRequest()
	req.Phone = "  "

	_, err := svc.NewOrder(context.Background(), req)

	var fieldErr *ErrEmptyField
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "phone", fieldErr.Field)
	assert.Empty(t, repo.records)
}

func TestDefaultService_NewOrderRepoError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewDefaultService(&fakeRepo{err: boom}, clock.NewMock())

	resp, err := svc.NewOrder(context.Background(), validRequest())
	require.ErrorIs(t, err, boom)
	assert.Nil(t, resp)
}

func TestDefaultService_NewUpload(t *testing.T) {
	clk := clock.NewMock()
	clk.Set(time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC))
	repo := &fakeRepo{}
	svc := NewDefaultService(repo, clk)

	resp, err := svc.NewUpload(context.Background(), RequestNewUpload{
		UserID: 7,
		Handle: "@alihandle",
		FileID: "AgACAgQ",
		Note:   "  receipt ",
	})
	require.NoError(t, err)

	require.Len(t, repo.uploads, 1)
	assert.Equal(t, []string{"2026-10-17 09:00:00", "7", "@alihandle", "AgACAgQ", "receipt"}, repo.uploads[0].Row())
	assert.Equal(t, repo.uploads[0], resp.Record)
}

func TestDefaultService_NewUploadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		repo := &fakeRepo{}
		_, err := NewDefaultService(repo, clock.NewMock()).NewUpload(context.Background(), RequestNewUpload{UserID: 7})

		var fieldErr *ErrEmptyField
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "file_id", fieldErr.Field)
		assert.Empty(t, repo.uploads)
	})

	t.Run("repo error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := NewDefaultService(&fakeRepo{err: boom}, clock.NewMock()).NewUpload(context.Background(), RequestNewUpload{FileID: "f"})
		require.ErrorIs(t, err, boom)
	})
}
