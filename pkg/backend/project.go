package backend

import (
	"context"
	"errors"
	"strings"

	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/models"
	"github.com/taskmill/taskmill/pkg/proto"
)

// DefaultStatus is the status of new projects and tasks.
const DefaultStatus = "open"

// ProjectOptions are the writable fields of a project.
type ProjectOptions struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	UserID int64  `json:"user_id"`
}

func (o *ProjectOptions) normalize() {
	o.Name = strings.TrimSpace(o.Name)
	if o.Status == "" {
		o.Status = DefaultStatus
	}
}

// validate checks o against the database within tx.
func (d *Backend) validateProject(ctx context.Context, tx *db.Tx, o ProjectOptions) error {
	verr := proto.NewValidationError()
	if o.Name == "" {
		verr.Add("name", "is required")
	}
	if err := d.checkUser(ctx, tx, o.UserID, "user_id", verr); err != nil {
		return err
	}
	return verr.Err()
}

// checkUser records a validation error on field when the user id does not
// exist.
func (d *Backend) checkUser(ctx context.Context, tx *db.Tx, id int64, field string, verr *proto.ValidationError) error {
	if id == 0 {
		verr.Add(field, "is required")
		return nil
	}
	if _, err := d.store.GetUserByID(ctx, tx, id); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			verr.Add(field, "does not exist")
			return nil
		}
		return err
	}
	return nil
}

// Projects returns every project.
func (d *Backend) Projects(ctx context.Context) ([]models.Project, error) {
	var ms []models.Project
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		ms, err = d.store.GetAllProjects(ctx, tx)
		return err
	}); err != nil {
		return nil, db.WrapError(err)
	}
	return ms, nil
}

// Project returns a project.
func (d *Backend) Project(ctx context.Context, id int64) (models.Project, error) {
	var m models.Project
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetProjectByID(ctx, tx, id)
		return err
	}); err != nil {
		return models.Project{}, wrapError(err, proto.ErrProjectNotFound)
	}
	return m, nil
}

// CreateProject creates a project and emits project.create.
func (d *Backend) CreateProject(ctx context.Context, o ProjectOptions) (models.Project, error) {
	o.normalize()

	var m models.Project
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := d.validateProject(ctx, tx, o); err != nil {
			return err
		}

		var err error
		m, err = d.store.CreateProject(ctx, tx, models.Project{Name: o.Name, Status: o.Status, UserID: o.UserID})
		return err
	}); err != nil {
		return models.Project{}, wrapError(err, proto.ErrProjectNotFound)
	}

	d.emitEntity(ctx, "project", "create", m)
	return m, nil
}

// UpdateProject updates a project and emits project.update.
func (d *Backend) UpdateProject(ctx context.Context, id int64, o ProjectOptions) (models.Project, error) {
	o.normalize()

	var m models.Project
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetProjectByID(ctx, tx, id); err != nil {
			return err
		}
		if err := d.validateProject(ctx, tx, o); err != nil {
			return err
		}

		var err error
		m, err = d.store.UpdateProjectByID(ctx, tx, id, models.Project{Name: o.Name, Status: o.Status, UserID: o.UserID})
		return err
	}); err != nil {
		return models.Project{}, wrapError(err, proto.ErrProjectNotFound)
	}

	d.emitEntity(ctx, "project", "update", m)
	return m, nil
}

// DeleteProject deletes a project, and its tasks, and emits project.delete
// with the project as it was before deletion.
func (d *Backend) DeleteProject(ctx context.Context, id int64) error {
	var m models.Project
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetProjectByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return d.store.DeleteProjectByID(ctx, tx, id)
	}); err != nil {
		return wrapError(err, proto.ErrProjectNotFound)
	}

	d.emitEntity(ctx, "project", "delete", m)
	return nil
}
