package database

import (
	"context"
	"strings"

	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/models"
	"github.com/taskmill/taskmill/pkg/store"
)

type userStore struct{}

var _ store.UserStore = (*userStore)(nil)

// CreateUser implements store.UserStore.
func (s *userStore) CreateUser(ctx context.Context, h db.Handler, name string, email string, passwordHash string, roleID *int64) (models.User, error) {
	query := h.Rebind(`
		INSERT INTO
		  users (name, email, password_hash, role_id, updated_at)
		VALUES
		  (?, ?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query, name, strings.ToLower(email), passwordHash, roleID); err != nil {
		return models.User{}, err
	}

	return s.GetUserByID(ctx, h, id)
}

// DeleteUserByID implements store.UserStore.
func (*userStore) DeleteUserByID(ctx context.Context, h db.Handler, id int64) error {
	query := h.Rebind(`DELETE FROM users WHERE id = ?;`)
	_, err := h.ExecContext(ctx, query, id)
	return err
}

// FindUserByEmail implements store.UserStore.
func (*userStore) FindUserByEmail(ctx context.Context, h db.Handler, email string) (models.User, error) {
	var m models.User
	query := h.Rebind(`SELECT * FROM users WHERE email = ?;`)
	err := h.GetContext(ctx, &m, query, strings.ToLower(email))
	return m, err
}

// GetAllUsers implements store.UserStore.
func (*userStore) GetAllUsers(ctx context.Context, h db.Handler) ([]models.User, error) {
	var m []models.User
	query := `SELECT * FROM users ORDER BY id ASC;`
	err := h.SelectContext(ctx, &m, query)
	return m, err
}

// GetUserByID implements store.UserStore.
func (*userStore) GetUserByID(ctx context.Context, h db.Handler, id int64) (models.User, error) {
	var m models.User
	query := h.Rebind(`SELECT * FROM users WHERE id = ?;`)
	err := h.GetContext(ctx, &m, query, id)
	return m, err
}

// SetUserPasswordByID implements store.UserStore.
func (*userStore) SetUserPasswordByID(ctx context.Context, h db.Handler, id int64, passwordHash string) error {
	query := h.Rebind(`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?;`)
	_, err := h.ExecContext(ctx, query, passwordHash, id)
	return err
}

// UpdateUserByID implements store.UserStore.
func (s *userStore) UpdateUserByID(ctx context.Context, h db.Handler, id int64, name string, email string, roleID *int64) (models.User, error) {
	query := h.Rebind(`
		UPDATE
		  users
		SET
		  name = ?,
		  email = ?,
		  role_id = ?,
		  updated_at = CURRENT_TIMESTAMP
		WHERE
		  id = ?;
	`)
	if _, err := h.ExecContext(ctx, query, name, strings.ToLower(email), roleID, id); err != nil {
		return models.User{}, err
	}

	return s.GetUserByID(ctx, h, id)
}
