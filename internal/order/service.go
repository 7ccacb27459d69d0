package order

import (
	"context"
	"log/slog"
	"strings"

	"bazarino-order-bot/internal/pkg/model"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

type Service interface {
	NewOrder(ctx context.Context, order RequestNewOrder) (*ResponseOrder, error)
	NewUpload(ctx context.Context, upload RequestNewUpload) (*ResponseUpload, error)
}

type DefaultService struct {
	repo  Repo
	clock clock.Clock
}

func NewDefaultService(repo Repo, clk clock.Clock) Service {
	if clk == nil {
		clk = clock.New()
	}
	return &DefaultService{
		repo:  repo,
		clock: clk,
	}
}

func (d *DefaultService) NewOrder(ctx context.Context, order RequestNewOrder) (*ResponseOrder, error) {
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	record := model.OrderRecord{
		CreatedAt: d.clock.Now().UTC(),
		Name:      order.Name,
		Address:   order.Address,
		Phone:     order.Phone,
		Product:   order.Product,
		Qty:       order.Qty,
		Notes:     order.Notes,
		Handle:    order.Handle,
	}
	reference := newReference()

	if err := d.repo.AppendOrder(ctx, record); err != nil {
		slog.Error("Failed to append order", "error", err, "reference", reference)
		return nil, err
	}

	slog.Info("Order appended", "reference", reference, "handle", record.Handle)
	return &ResponseOrder{
		Reference: reference,
		Record:    record,
	}, nil
}

func (d *DefaultService) NewUpload(ctx context.Context, upload RequestNewUpload) (*ResponseUpload, error) {
	if upload.FileID == "" {
		return nil, &ErrEmptyField{Field: "file_id"}
	}

	record := model.UploadRecord{
		CreatedAt: d.clock.Now().UTC(),
		UserID:    upload.UserID,
		Handle:    upload.Handle,
		FileID:    upload.FileID,
		Note:      strings.TrimSpace(upload.Note),
	}
	if err := d.repo.AppendUpload(ctx, record); err != nil {
		slog.Error("Failed to append upload", "error", err, "userID", upload.UserID)
		return nil, err
	}

	slog.Info("Upload appended", "userID", upload.UserID, "handle", record.Handle)
	return &ResponseUpload{Record: record}, nil
}

func validateOrder(order RequestNewOrder) error {
	required := []struct {
		name  string
		value string
	}{
		{"name", order.Name},
		{"address", order.Address},
		{"phone", order.Phone},
		{"product", order.Product},
		{"qty", order.Qty},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return &ErrEmptyField{Field: field.name}
		}
	}
	return nil
}

func newReference() string {
	return uuid.NewString()[:8]
}
