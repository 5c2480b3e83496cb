package backend

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/models"
	"github.com/taskmill/taskmill/pkg/proto"
)

// UserOptions are the writable fields of a user. An empty password leaves
// the current one unchanged on update.
type UserOptions struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   *int64 `json:"role_id"`
}

func (o *UserOptions) normalize() {
	o.Name = strings.TrimSpace(o.Name)
	o.Email = strings.ToLower(strings.TrimSpace(o.Email))
}

func (d *Backend) validateUser(ctx context.Context, tx *db.Tx, o UserOptions, create bool) error {
	verr := proto.NewValidationError()
	if o.Name == "" {
		verr.Add("name", "is required")
	}
	if o.Email == "" {
		verr.Add("email", "is required")
	} else if _, err := mail.ParseAddress(o.Email); err != nil {
		verr.Add("email", "is not a valid address")
	}
	if create && o.Password == "" {
		verr.Add("password", "is required")
	} else if len(o.Password) > maxPasswordBytes {
		verr.Add("password", ErrPasswordTooLong.Error())
	}
	if o.RoleID != nil {
		if _, err := d.store.GetRoleByID(ctx, tx, *o.RoleID); err != nil {
			if !errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
				return err
			}
			verr.Add("role_id", "does not exist")
		}
	}
	return verr.Err()
}

// Users returns every user.
func (d *Backend) Users(ctx context.Context) ([]models.User, error) {
	var ms []models.User
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		ms, err = d.store.GetAllUsers(ctx, tx)
		return err
	}); err != nil {
		return nil, db.WrapError(err)
	}
	return ms, nil
}

// User returns a user.
func (d *Backend) User(ctx context.Context, id int64) (models.User, error) {
	var m models.User
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetUserByID(ctx, tx, id)
		return err
	}); err != nil {
		return models.User{}, wrapError(err, proto.ErrUserNotFound)
	}
	return m, nil
}

// CreateUser creates a user and emits user.create.
func (d *Backend) CreateUser(ctx context.Context, o UserOptions) (models.User, error) {
	o.normalize()

	var m models.User
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := d.validateUser(ctx, tx, o, true); err != nil {
			return err
		}

		hash, err := HashPassword(o.Password)
		if err != nil {
			return err
		}

		m, err = d.store.CreateUser(ctx, tx, o.Name, o.Email, hash, o.RoleID)
		return err
	}); err != nil {
		return models.User{}, wrapError(err, proto.ErrUserNotFound)
	}

	d.emitEntity(ctx, "user", "create", m)
	return m, nil
}

// UpdateUser updates a user and emits user.update.
func (d *Backend) UpdateUser(ctx context.Context, id int64, o UserOptions) (models.User, error) {
	o.normalize()

	var m models.User
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetUserByID(ctx, tx, id); err != nil {
			return err
		}
		if err := d.validateUser(ctx, tx, o, false); err != nil {
			return err
		}

		if o.Password != "" {
			hash, err := HashPassword(o.Password)
			if err != nil {
				return err
			}
			if err := d.store.SetUserPasswordByID(ctx, tx, id, hash); err != nil {
				return err
			}
		}

		var err error
		m, err = d.store.UpdateUserByID(ctx, tx, id, o.Name, o.Email, o.RoleID)
		return err
	}); err != nil {
		return models.User{}, wrapError(err, proto.ErrUserNotFound)
	}

	d.emitEntity(ctx, "user", "update", m)
	return m, nil
}

// DeleteUser deletes a user and emits user.delete with the user as it was
// before deletion. Users that still own projects or tasks are in use.
func (d *Backend) DeleteUser(ctx context.Context, id int64) error {
	var m models.User
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetUserByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return d.store.DeleteUserByID(ctx, tx, id)
	}); err != nil {
		return wrapError(err, proto.ErrUserNotFound)
	}

	d.emitEntity(ctx, "user", "delete", m)
	return nil
}

// Authenticate returns the user with the given email and password.
func (d *Backend) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var m models.User
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.FindUserByEmail(ctx, tx, email)
		return err
	}); err != nil {
		return models.User{}, wrapError(err, proto.ErrUserNotFound)
	}

	if !VerifyPassword(password, m.PasswordHash) {
		return models.User{}, proto.ErrUserNotFound
	}
	return m, nil
}
