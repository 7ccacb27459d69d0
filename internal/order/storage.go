package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bazarino-order-bot/internal/pkg/model"
	"bazarino-order-bot/pkg"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Repo interface {
	AppendOrder(ctx context.Context, record model.OrderRecord) error
	AppendUpload(ctx context.Context, record model.UploadRecord) error
	Close() error
}

var (
	orderHeaderRow  = []string{"timestamp", "name", "address", "phone", "product", "qty", "notes", "handle"}
	uploadHeaderRow = []string{"timestamp", "user_id", "handle", "file_id", "note"}
)

// Worksheets names the tabs of the spreadsheet the repo writes to.
type Worksheets struct {
	Orders  string
	Uploads string
}

type SheetsRepo struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheets    Worksheets
	retries       uint64
	retryInterval time.Duration
}

type SheetsOption func(*SheetsRepo)

func WithRetries(retries uint64, interval time.Duration) SheetsOption {
	return func(r *SheetsRepo) {
		r.retries = retries
		r.retryInterval = interval
	}
}

// NewGoogleServices builds Sheets and Drive clients from a service account key file.
func NewGoogleServices(ctx context.Context, credentialsPath string) (*sheets.Service, *drive.Service, error) {
	opts := []option.ClientOption{
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope, drive.DriveMetadataReadonlyScope),
	}

	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, nil, &pkg.ErrStoreProcedure{
			Cause: "failed to create sheets client",
			Info:  fmt.Sprintf("credentials: %s", credentialsPath),
			Err:   err,
		}
	}

	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, nil, &pkg.ErrStoreProcedure{
			Cause: "failed to create drive client",
			Info:  fmt.Sprintf("credentials: %s", credentialsPath),
			Err:   err,
		}
	}

	return sheetsSvc, driveSvc, nil
}

// ResolveSpreadsheetID looks up a spreadsheet visible to the service account by its title.
func ResolveSpreadsheetID(ctx context.Context, driveSvc *drive.Service, name string) (string, error) {
	query := fmt.Sprintf(
		"name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`),
	)
	res, err := driveSvc.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", &pkg.ErrStoreProcedure{
			Cause: "failed to search spreadsheet",
			Info:  fmt.Sprintf("name: %s", name),
			Err:   err,
		}
	}
	if len(res.Files) == 0 {
		return "", &pkg.ErrStoreProcedure{
			Cause: "failed to search spreadsheet",
			Info:  fmt.Sprintf("name: %s", name),
			Err:   ErrSpreadsheetNotFound,
		}
	}
	return res.Files[0].Id, nil
}

// NewSheetsRepo returns a Repo appending to the given worksheets, creating missing ones with a header row.
func NewSheetsRepo(ctx context.Context, svc *sheets.Service, spreadsheetID string, worksheets Worksheets, opts ...SheetsOption) (Repo, error) {
	repo := &SheetsRepo{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		worksheets:    worksheets,
		retries:       2,
		retryInterval: time.Second,
	}
	for _, opt := range opts {
		opt(repo)
	}

	if err := repo.ensureWorksheets(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (d *SheetsRepo) AppendOrder(ctx context.Context, record model.OrderRecord) error {
	if err := d.appendRow(ctx, d.worksheets.Orders, record.Row()); err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to append order row",
			Info:  fmt.Sprintf("spreadsheet: %s; worksheet: %s", d.spreadsheetID, d.worksheets.Orders),
			Err:   err,
		}
	}
	return nil
}

func (d *SheetsRepo) AppendUpload(ctx context.Context, record model.UploadRecord) error {
	if err := d.appendRow(ctx, d.worksheets.Uploads, record.Row()); err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to append upload row",
			Info:  fmt.Sprintf("spreadsheet: %s; worksheet: %s", d.spreadsheetID, d.worksheets.Uploads),
			Err:   err,
		}
	}
	return nil
}

func (d *SheetsRepo) Close() error {
	return nil
}

func (d *SheetsRepo) appendRow(ctx context.Context, worksheet string, cells []string) error {
	row := make([]interface{}, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	valueRange := &sheets.ValueRange{Values: [][]interface{}{row}}

	op := func() error {
		_, err := d.svc.Spreadsheets.Values.
			Append(d.spreadsheetID, a1Range(worksheet), valueRange).
			ValueInputOption("RAW").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		if err != nil && !isTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = d.retryInterval
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, d.retries), ctx))
}

func (d *SheetsRepo) ensureWorksheets(ctx context.Context) error {
	spreadsheet, err := d.svc.Spreadsheets.Get(d.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to open spreadsheet",
			Info:  fmt.Sprintf("spreadsheet: %s", d.spreadsheetID),
			Err:   err,
		}
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			existing[sheet.Properties.Title] = true
		}
	}

	wanted := []struct {
		title  string
		header []string
	}{
		{d.worksheets.Orders, orderHeaderRow},
		{d.worksheets.Uploads, uploadHeaderRow},
	}
	for _, ws := range wanted {
		if existing[ws.title] {
			continue
		}
		if err := d.addWorksheet(ctx, ws.title, ws.header); err != nil {
			return err
		}
		existing[ws.title] = true
	}
	return nil
}

func (d *SheetsRepo) addWorksheet(ctx context.Context, title string, header []string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}
	if _, err := d.svc.Spreadsheets.BatchUpdate(d.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to create worksheet",
			Info:  fmt.Sprintf("spreadsheet: %s; worksheet: %s", d.spreadsheetID, title),
			Err:   err,
		}
	}

	if err := d.appendRow(ctx, title, header); err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to write header row",
			Info:  fmt.Sprintf("spreadsheet: %s; worksheet: %s", d.spreadsheetID, title),
			Err:   err,
		}
	}
	return nil
}

func a1Range(worksheet string) string {
	return fmt.Sprintf("'%s'!A1", strings.ReplaceAll(worksheet, "'", "''"))
}

// isTransient reports whether a Sheets call may succeed when repeated.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}
