package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskmill/taskmill/pkg/access"
	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/models"
	"github.com/taskmill/taskmill/pkg/proto"
)

// RoleOptions are the writable fields of a role.
type RoleOptions struct {
	APIName     string   `json:"api_name"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Abilities   []string `json:"abilities"`
}

func (o *RoleOptions) normalize() {
	o.APIName = strings.TrimSpace(o.APIName)
	o.Name = strings.TrimSpace(o.Name)
	if o.Abilities == nil {
		o.Abilities = []string{}
	}
}

func (o RoleOptions) validate() error {
	verr := proto.NewValidationError()
	if o.APIName == "" {
		verr.Add("api_name", "is required")
	}
	if o.Name == "" {
		verr.Add("name", "is required")
	}
	for i, a := range o.Abilities {
		if !access.IsValidAbility(a) {
			verr.Add(fmt.Sprintf("abilities.%d", i), "is not a known ability")
		}
	}
	return verr.Err()
}

// Roles returns every role.
func (d *Backend) Roles(ctx context.Context) ([]models.Role, error) {
	var ms []models.Role
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		ms, err = d.store.GetAllRoles(ctx, tx)
		return err
	}); err != nil {
		return nil, db.WrapError(err)
	}
	return ms, nil
}

// Role returns a role.
func (d *Backend) Role(ctx context.Context, id int64) (models.Role, error) {
	var m models.Role
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetRoleByID(ctx, tx, id)
		return err
	}); err != nil {
		return models.Role{}, wrapError(err, proto.ErrRoleNotFound)
	}
	return m, nil
}

// CreateRole creates a role. Role events are dispatched by the caller.
func (d *Backend) CreateRole(ctx context.Context, o RoleOptions) (models.Role, error) {
	o.normalize()
	if err := o.validate(); err != nil {
		return models.Role{}, err
	}

	var m models.Role
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.CreateRole(ctx, tx, o.APIName, o.Name, o.Description, o.Abilities)
		return err
	}); err != nil {
		return models.Role{}, wrapError(err, proto.ErrRoleNotFound)
	}
	return m, nil
}

// UpdateRole updates a role.
func (d *Backend) UpdateRole(ctx context.Context, id int64, o RoleOptions) (models.Role, error) {
	o.normalize()
	if err := o.validate(); err != nil {
		return models.Role{}, err
	}

	var m models.Role
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetRoleByID(ctx, tx, id); err != nil {
			return err
		}
		var err error
		m, err = d.store.UpdateRoleByID(ctx, tx, id, o.APIName, o.Name, o.Description, o.Abilities)
		return err
	}); err != nil {
		return models.Role{}, wrapError(err, proto.ErrRoleNotFound)
	}
	return m, nil
}

// DeleteRole deletes a role and returns it as it was before deletion. Users
// holding the role lose it.
func (d *Backend) DeleteRole(ctx context.Context, id int64) (models.Role, error) {
	var m models.Role
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetRoleByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return d.store.DeleteRoleByID(ctx, tx, id)
	}); err != nil {
		return models.Role{}, wrapError(err, proto.ErrRoleNotFound)
	}
	return m, nil
}
