package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
)

// traceQuery logs a statement and how long it took. l is nil unless verbose
// logging is enabled.
func traceQuery(l *log.Logger, start time.Time, query string, args []any, err error) {
	if l == nil {
		return
	}
	kv := []any{
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"took", time.Since(start),
	}
	if err != nil && err != sql.ErrNoRows {
		kv = append(kv, "err", err)
	}
	l.Debug("trace", kv...)
}

// SelectContext runs sqlx.SelectContext and traces it.
func (d *DB) SelectContext(ctx context.Context, dest any, query string, args ...any) (err error) {
	defer func(start time.Time) { traceQuery(d.logger, start, query, args, err) }(time.Now())
	return d.DB.SelectContext(ctx, dest, query, args...)
}

// GetContext runs sqlx.GetContext and traces it.
func (d *DB) GetContext(ctx context.Context, dest any, query string, args ...any) (err error) {
	defer func(start time.Time) { traceQuery(d.logger, start, query, args, err) }(time.Now())
	return d.DB.GetContext(ctx, dest, query, args...)
}

// QueryxContext runs sqlx.QueryxContext and traces it.
func (d *DB) QueryxContext(ctx context.Context, query string, args ...any) (rows *sqlx.Rows, err error) {
	defer func(start time.Time) { traceQuery(d.logger, start, query, args, err) }(time.Now())
	return d.DB.QueryxContext(ctx, query, args...)
}

// QueryRowxContext runs sqlx.QueryRowxContext and traces it. Row errors
// surface on Scan, so none are logged here.
func (d *DB) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	defer traceQuery(d.logger, time.Now(), query, args, nil)
	return d.DB.QueryRowxContext(ctx, query, args...)
}

// ExecContext runs sqlx.ExecContext and traces it.
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (res sql.Result, err error) {
	defer func(start time.Time) { traceQuery(d.logger, start, query, args, err) }(time.Now())
	return d.DB.ExecContext(ctx, query, args...)
}

// SelectContext runs sqlx.SelectContext within the transaction and traces it.
func (t *Tx) SelectContext(ctx context.Context, dest any, query string, args ...any) (err error) {
	defer func(start time.Time) { traceQuery(t.logger, start, query, args, err) }(time.Now())
	return t.Tx.SelectContext(ctx, dest, query, args...)
}

// GetContext runs sqlx.GetContext within the transaction and traces it.
func (t *Tx) GetContext(ctx context.Context, dest any, query string, args ...any) (err error) {
	defer func(start time.Time) { traceQuery(t.logger, start, query, args, err) }(time.Now())
	return t.Tx.GetContext(ctx, dest, query, args...)
}

// QueryxContext runs sqlx.QueryxContext within the transaction and traces it.
func (t *Tx) QueryxContext(ctx context.Context, query string, args ...any) (rows *sqlx.Rows, err error) {
	defer func(start time.Time) { traceQuery(t.logger, start, query, args, err) }(time.Now())
	return t.Tx.QueryxContext(ctx, query, args...)
}

// QueryRowxContext runs sqlx.QueryRowxContext within the transaction and
// traces it.
func (t *Tx) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	defer traceQuery(t.logger, time.Now(), query, args, nil)
	return t.Tx.QueryRowxContext(ctx, query, args...)
}

// ExecContext runs sqlx.ExecContext within the transaction and traces it.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (res sql.Result, err error) {
	defer func(start time.Time) { traceQuery(t.logger, start, query, args, err) }(time.Now())
	return t.Tx.ExecContext(ctx, query, args...)
}
