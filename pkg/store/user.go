package store

import (
	"context"

	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/models"
)

// UserStore is an interface for managing users.
type UserStore interface {
	GetUserByID(ctx context.Context, h db.Handler, id int64) (models.User, error)
	FindUserByEmail(ctx context.Context, h db.Handler, email string) (models.User, error)
	GetAllUsers(ctx context.Context, h db.Handler) ([]models.User, error)
	CreateUser(ctx context.Context, h db.Handler, name string, email string, passwordHash string, roleID *int64) (models.User, error)
	UpdateUserByID(ctx context.Context, h db.Handler, id int64, name string, email string, roleID *int64) (models.User, error)
	SetUserPasswordByID(ctx context.Context, h db.Handler, id int64, passwordHash string) error
	DeleteUserByID(ctx context.Context, h db.Handler, id int64) error
}

// RoleStore is an interface for managing roles.
type RoleStore interface {
	GetRoleByID(ctx context.Context, h db.Handler, id int64) (models.Role, error)
	FindRoleByAPIName(ctx context.Context, h db.Handler, apiName string) (models.Role, error)
	GetAllRoles(ctx context.Context, h db.Handler) ([]models.Role, error)
	CreateRole(ctx context.Context, h db.Handler, apiName string, name string, description string, abilities []string) (models.Role, error)
	UpdateRoleByID(ctx context.Context, h db.Handler, id int64, apiName string, name string, description string, abilities []string) (models.Role, error)
	DeleteRoleByID(ctx context.Context, h db.Handler, id int64) error
}
