package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/internal/test"
)

func TestWrapErrorSqliteConstraints(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)

	_, err = dbx.ExecContext(ctx, `
CREATE TABLE owners (id INTEGER PRIMARY KEY, email TEXT NOT NULL UNIQUE);
CREATE TABLE things (id INTEGER PRIMARY KEY, owner_id INTEGER NOT NULL REFERENCES owners (id));
INSERT INTO owners (id, email) VALUES (1, 'a@example.test');
INSERT INTO things (id, owner_id) VALUES (1, 1);`)
	is.NoErr(err)

	_, err = dbx.ExecContext(ctx, "INSERT INTO owners (id, email) VALUES (2, 'a@example.test')")
	is.True(errors.Is(db.WrapError(err), db.ErrDuplicateKey))

	_, err = dbx.ExecContext(ctx, "INSERT INTO things (id, owner_id) VALUES (2, 42)")
	is.True(errors.Is(db.WrapError(err), db.ErrForeignKey))

	// deleting a parent that is still referenced
	_, err = dbx.ExecContext(ctx, "DELETE FROM owners WHERE id = 1")
	is.True(err != nil)
	is.True(errors.Is(db.WrapError(err), db.ErrForeignKey))

	err = dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM owners WHERE id = 1")
		return err
	})
	is.True(errors.Is(db.WrapError(err), db.ErrForeignKey))
}
