package store

import (
	"context"

	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/models"
)

// ProjectStore is an interface for managing projects.
type ProjectStore interface {
	GetProjectByID(ctx context.Context, h db.Handler, id int64) (models.Project, error)
	GetAllProjects(ctx context.Context, h db.Handler) ([]models.Project, error)
	CreateProject(ctx context.Context, h db.Handler, p models.Project) (models.Project, error)
	UpdateProjectByID(ctx context.Context, h db.Handler, id int64, p models.Project) (models.Project, error)
	DeleteProjectByID(ctx context.Context, h db.Handler, id int64) error
}

// TaskStore is an interface for managing tasks, their time logs and comments.
type TaskStore interface {
	GetTaskByID(ctx context.Context, h db.Handler, id int64) (models.Task, error)
	GetTasksByProjectID(ctx context.Context, h db.Handler, projectID int64) ([]models.Task, error)
	GetAllTasks(ctx context.Context, h db.Handler) ([]models.Task, error)
	CreateTask(ctx context.Context, h db.Handler, t models.Task) (models.Task, error)
	UpdateTaskByID(ctx context.Context, h db.Handler, id int64, t models.Task) (models.Task, error)
	DeleteTaskByID(ctx context.Context, h db.Handler, id int64) error

	CreateTaskLog(ctx context.Context, h db.Handler, l models.TaskLog) (models.TaskLog, error)
	GetTaskLogsByTaskID(ctx context.Context, h db.Handler, taskID int64) ([]models.TaskLog, error)

	CreateTaskComment(ctx context.Context, h db.Handler, c models.TaskComment) (models.TaskComment, error)
	GetTaskCommentsByTaskID(ctx context.Context, h db.Handler, taskID int64) ([]models.TaskComment, error)
}
