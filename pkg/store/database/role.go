package database

import (
	"context"

	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/models"
	"github.com/taskmill/taskmill/pkg/store"
)

type roleStore struct{}

var _ store.RoleStore = (*roleStore)(nil)

// CreateRole implements store.RoleStore.
func (s *roleStore) CreateRole(ctx context.Context, h db.Handler, apiName string, name string, description string, abilities []string) (models.Role, error) {
	query := h.Rebind(`
		INSERT INTO
		  roles (api_name, name, description, abilities, updated_at)
		VALUES
		  (?, ?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query, apiName, name, description, models.JSONList[string](abilities)); err != nil {
		return models.Role{}, err
	}

	return s.GetRoleByID(ctx, h, id)
}

// DeleteRoleByID implements store.RoleStore.
func (*roleStore) DeleteRoleByID(ctx context.Context, h db.Handler, id int64) error {
	query := h.Rebind(`DELETE FROM roles WHERE id = ?;`)
	_, err := h.ExecContext(ctx, query, id)
	return err
}

// FindRoleByAPIName implements store.RoleStore.
func (*roleStore) FindRoleByAPIName(ctx context.Context, h db.Handler, apiName string) (models.Role, error) {
	var m models.Role
	query := h.Rebind(`SELECT * FROM roles WHERE api_name = ?;`)
	err := h.GetContext(ctx, &m, query, apiName)
	return m, err
}

// GetAllRoles implements store.RoleStore.
func (*roleStore) GetAllRoles(ctx context.Context, h db.Handler) ([]models.Role, error) {
	var m []models.Role
	err := h.SelectContext(ctx, &m, `SELECT * FROM roles ORDER BY id ASC;`)
	return m, err
}

// GetRoleByID implements store.RoleStore.
func (*roleStore) GetRoleByID(ctx context.Context, h db.Handler, id int64) (models.Role, error) {
	var m models.Role
	query := h.Rebind(`SELECT * FROM roles WHERE id = ?;`)
	err := h.GetContext(ctx, &m, query, id)
	return m, err
}

// UpdateRoleByID implements store.RoleStore.
func (s *roleStore) UpdateRoleByID(ctx context.Context, h db.Handler, id int64, apiName string, name string, description string, abilities []string) (models.Role, error) {
	query := h.Rebind(`
		UPDATE
		  roles
		SET
		  api_name = ?,
		  name = ?,
		  description = ?,
		  abilities = ?,
		  updated_at = CURRENT_TIMESTAMP
		WHERE
		  id = ?;
	`)
	if _, err := h.ExecContext(ctx, query, apiName, name, description, models.JSONList[string](abilities), id); err != nil {
		return models.Role{}, err
	}

	return s.GetRoleByID(ctx, h, id)
}
