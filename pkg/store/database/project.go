package database

import (
	"context"

	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/models"
	"github.com/taskmill/taskmill/pkg/store"
)

type projectStore struct{}

var _ store.ProjectStore = (*projectStore)(nil)

// CreateProject implements store.ProjectStore.
func (s *projectStore) CreateProject(ctx context.Context, h db.Handler, p models.Project) (models.Project, error) {
	query := h.Rebind(`
		INSERT INTO
		  projects (name, status, user_id, updated_at)
		VALUES
		  (?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query, p.Name, p.Status, p.UserID); err != nil {
		return models.Project{}, err
	}

	return s.GetProjectByID(ctx, h, id)
}

// DeleteProjectByID implements store.ProjectStore.
func (*projectStore) DeleteProjectByID(ctx context.Context, h db.Handler, id int64) error {
	query := h.Rebind(`DELETE FROM projects WHERE id = ?;`)
	_, err := h.ExecContext(ctx, query, id)
	return err
}

// GetAllProjects implements store.ProjectStore.
func (*projectStore) GetAllProjects(ctx context.Context, h db.Handler) ([]models.Project, error) {
	var m []models.Project
	err := h.SelectContext(ctx, &m, `SELECT * FROM projects ORDER BY id ASC;`)
	return m, err
}

// GetProjectByID implements store.ProjectStore.
func (*projectStore) GetProjectByID(ctx context.Context, h db.Handler, id int64) (models.Project, error) {
	var m models.Project
	query := h.Rebind(`SELECT * FROM projects WHERE id = ?;`)
	err := h.GetContext(ctx, &m, query, id)
	return m, err
}

// UpdateProjectByID implements store.ProjectStore.
func (s *projectStore) UpdateProjectByID(ctx context.Context, h db.Handler, id int64, p models.Project) (models.Project, error) {
	query := h.Rebind(`
		UPDATE
		  projects
		SET
		  name = ?,
		  status = ?,
		  user_id = ?,
		  updated_at = CURRENT_TIMESTAMP
		WHERE
		  id = ?;
	`)
	if _, err := h.ExecContext(ctx, query, p.Name, p.Status, p.UserID, id); err != nil {
		return models.Project{}, err
	}

	return s.GetProjectByID(ctx, h, id)
}
