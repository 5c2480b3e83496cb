package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/internal/test"
)

func TestBadFromContext(t *testing.T) {
	ctx := context.TODO()
	if c := db.FromContext(ctx); c != nil {
		t.Errorf("FromContext(ctx) => %v, want %v", c, nil)
	}
}

func TestGoodFromContext(t *testing.T) {
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	if err != nil {
		t.Fatal(err)
	}
	ctx = db.WithContext(ctx, dbx)
	if c := db.FromContext(ctx); c == nil {
		t.Errorf("FromContext(ctx) => %v, want %v", c, dbx)
	}
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dbx.ExecContext(ctx, "CREATE TABLE things (name TEXT NOT NULL)"); err != nil {
		t.Fatal(err)
	}

	errBoom := errors.New("boom")
	err = dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO things (name) VALUES ('a')"); err != nil {
			return err
		}
		return errBoom
	})
	if err != errBoom {
		t.Fatalf("TransactionContext => %v, want %v", err, errBoom)
	}

	var n int
	if err := dbx.GetContext(ctx, &n, "SELECT COUNT(*) FROM things"); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("rows after rollback => %d, want 0", n)
	}
}
