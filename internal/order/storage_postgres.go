package order

import (
	"context"
	"fmt"

	"bazarino-order-bot/internal/pkg/model"
	"bazarino-order-bot/pkg"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx"
)

var schema = []string{`create table if not exists orders (
	order_id   serial primary key,
	created_at text not null,
	name       text not null,
	address    text not null,
	phone      text not null,
	product    text not null,
	qty        text not null,
	notes      text not null,
	handle     text not null
)`, `create table if not exists uploads (
	upload_id  serial primary key,
	created_at text not null,
	user_id    bigint not null,
	handle     text not null,
	file_id    text not null,
	note       text not null
)`}

type execer interface {
	ExecEx(ctx context.Context, sql string, options *pgx.QueryExOptions, arguments ...interface{}) (pgx.CommandTag, error)
}

type PostgresRepo struct {
	db    execer
	close func()
}

func NewPostgresRepo(ctx context.Context, databaseURL string) (Repo, error) {
	connCfg, err := pgx.ParseURI(databaseURL)
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{
			Cause: "failed to parse database url",
			Err:   err,
		}
	}

	pool, err := pgx.NewConnPool(pgx.ConnPoolConfig{
		ConnConfig:     connCfg,
		MaxConnections: 5,
	})
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{
			Cause: "failed to connect to database",
			Info:  fmt.Sprintf("host: %s; database: %s", connCfg.Host, connCfg.Database),
			Err:   err,
		}
	}

	repo := &PostgresRepo{db: pool, close: pool.Close}
	for _, stmt := range schema {
		if _, err := repo.db.ExecEx(ctx, stmt, nil); err != nil {
			pool.Close()
			return nil, &pkg.ErrStoreProcedure{
				Cause: "failed to create table",
				Info:  fmt.Sprintf("query: %s", stmt),
				Err:   err,
			}
		}
	}

	return repo, nil
}

func (d *PostgresRepo) AppendOrder(ctx context.Context, record model.OrderRecord) error {
	query, args, err := insertOrderQuery(toDBOrder(record))
	if err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to build query",
			Err:   err,
		}
	}

	if _, err := d.db.ExecEx(ctx, query, nil, args...); err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to insert order",
			Info:  fmt.Sprintf("query: %s", query),
			Err:   err,
		}
	}
	return nil
}

func (d *PostgresRepo) AppendUpload(ctx context.Context, record model.UploadRecord) error {
	query, args, err := insertUploadQuery(toDBUpload(record))
	if err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to build query",
			Err:   err,
		}
	}

	if _, err := d.db.ExecEx(ctx, query, nil, args...); err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to insert upload",
			Info:  fmt.Sprintf("query: %s", query),
			Err:   err,
		}
	}
	return nil
}

func (d *PostgresRepo) Close() error {
	if d.close != nil {
		d.close()
	}
	return nil
}

func insertOrderQuery(order DBOrder) (string, []interface{}, error) {
	return sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Insert("orders").
		Columns("created_at", "name", "address", "phone", "product", "qty", "notes", "handle").
		Values(order.CreatedAt, order.Name, order.Address, order.Phone, order.Product, order.Qty, order.Notes, order.Handle).
		ToSql()
}

func toDBOrder(record model.OrderRecord) DBOrder {
	row := record.Row()
	return DBOrder{
		CreatedAt: row[0],
		Name:      row[1],
		Address:   row[2],
		Phone:     row[3],
		Product:   row[4],
		Qty:       row[5],
		Notes:     row[6],
		Handle:    row[7],
	}
}

func insertUploadQuery(upload DBUpload) (string, []interface{}, error) {
	return sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Insert("uploads").
		Columns("created_at", "user_id", "handle", "file_id", "note").
		Values(upload.CreatedAt, upload.UserID, upload.Handle, upload.FileID, upload.Note).
		ToSql()
}

func toDBUpload(record model.UploadRecord) DBUpload {
	return DBUpload{
		CreatedAt: record.CreatedAt.UTC().Format(model.TimestampLayout),
		UserID:    record.UserID,
		Handle:    record.HandleOrPlaceholder(),
		FileID:    record.FileID,
		Note:      record.Note,
	}
}
