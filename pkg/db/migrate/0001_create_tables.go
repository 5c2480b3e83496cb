// Package migrate provides database migration functionality.
package migrate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/taskmill/taskmill/pkg/access"
	"github.com/taskmill/taskmill/pkg/db"
)

const (
	createTablesName    = "create tables"
	createTablesVersion = 1
)

// defaultRoles are seeded by the first migration.
var defaultRoles = []struct {
	APIName     string
	Name        string
	Description string
	Abilities   []access.Ability
}{
	{
		APIName:     "superadmin",
		Name:        "Super Admin",
		Description: "Unrestricted access to every project and setting.",
		Abilities:   access.Abilities(),
	},
	{
		APIName:     "project_manager",
		Name:        "Project Manager",
		Description: "Manages projects, their tasks and time logs.",
		Abilities: []access.Ability{
			access.TaskCreate, access.TaskUpdate, access.TaskDelete,
			access.TaskLog, access.TaskManageLog, access.TaskLogViewAll, access.TaskComment,
			access.ProjectCreate, access.ProjectUpdate, access.ProjectDelete,
			access.ProjectAssign, access.ProjectViewAll,
		},
	},
	{
		APIName:     "developer",
		Name:        "Developer",
		Description: "Works on assigned tasks and logs time.",
		Abilities: []access.Ability{
			access.TaskCreate, access.TaskUpdate, access.TaskLog, access.TaskComment,
		},
	},
	{
		APIName:     "client",
		Name:        "Client",
		Description: "Follows projects and comments on tasks.",
		Abilities: []access.Ability{
			access.TaskComment,
		},
	},
}

var createTables = Migration{
	Version: createTablesVersion,
	Name:    createTablesName,
	Migrate: func(ctx context.Context, h db.Handler) error {
		if err := migrateUp(ctx, h, createTablesVersion, createTablesName); err != nil {
			return err
		}

		insert := "INSERT INTO roles (api_name, name, description, abilities, updated_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)"
		switch h.DriverName() {
		case driverSQLite3, driverSQLite:
			insert = "INSERT OR IGNORE INTO roles (api_name, name, description, abilities, updated_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)"
		case driverPostgres:
			insert += " ON CONFLICT DO NOTHING"
		}
		insert = h.Rebind(insert)

		for _, r := range defaultRoles {
			abilities, err := json.Marshal(r.Abilities)
			if err != nil {
				return err //nolint:wrapcheck
			}
			if _, err := h.ExecContext(ctx, insert, r.APIName, r.Name, r.Description, string(abilities)); err != nil {
				return fmt.Errorf("inserting default role %q: %w", r.APIName, err)
			}
		}

		return nil
	},
	Rollback: func(ctx context.Context, h db.Handler) error {
		return migrateDown(ctx, h, createTablesVersion, createTablesName)
	},
}
