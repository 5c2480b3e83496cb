package database

import (
	"context"

	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/models"
	"github.com/taskmill/taskmill/pkg/store"
)

type taskStore struct{}

var _ store.TaskStore = (*taskStore)(nil)

// CreateTask implements store.TaskStore.
func (s *taskStore) CreateTask(ctx context.Context, h db.Handler, t models.Task) (models.Task, error) {
	query := h.Rebind(`
		INSERT INTO
		  tasks (name, description, status, user_id, project_id, billable_minutes, due_date, assignees, updated_at)
		VALUES
		  (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query,
		t.Name, t.Description, t.Status, t.UserID, t.ProjectID,
		t.BillableMinutes, t.DueDate, t.Assignees,
	); err != nil {
		return models.Task{}, err
	}

	return s.GetTaskByID(ctx, h, id)
}

// DeleteTaskByID implements store.TaskStore.
func (*taskStore) DeleteTaskByID(ctx context.Context, h db.Handler, id int64) error {
	query := h.Rebind(`DELETE FROM tasks WHERE id = ?;`)
	_, err := h.ExecContext(ctx, query, id)
	return err
}

// GetAllTasks implements store.TaskStore.
func (*taskStore) GetAllTasks(ctx context.Context, h db.Handler) ([]models.Task, error) {
	var m []models.Task
	err := h.SelectContext(ctx, &m, `SELECT * FROM tasks ORDER BY id ASC;`)
	return m, err
}

// GetTaskByID implements store.TaskStore.
func (*taskStore) GetTaskByID(ctx context.Context, h db.Handler, id int64) (models.Task, error) {
	var m models.Task
	query := h.Rebind(`SELECT * FROM tasks WHERE id = ?;`)
	err := h.GetContext(ctx, &m, query, id)
	return m, err
}

// GetTasksByProjectID implements store.TaskStore.
func (*taskStore) GetTasksByProjectID(ctx context.Context, h db.Handler, projectID int64) ([]models.Task, error) {
	var m []models.Task
	query := h.Rebind(`SELECT * FROM tasks WHERE project_id = ? ORDER BY id ASC;`)
	err := h.SelectContext(ctx, &m, query, projectID)
	return m, err
}

// UpdateTaskByID implements store.TaskStore.
func (s *taskStore) UpdateTaskByID(ctx context.Context, h db.Handler, id int64, t models.Task) (models.Task, error) {
	query := h.Rebind(`
		UPDATE
		  tasks
		SET
		  name = ?,
		  description = ?,
		  status = ?,
		  user_id = ?,
		  project_id = ?,
		  billable_minutes = ?,
		  due_date = ?,
		  assignees = ?,
		  updated_at = CURRENT_TIMESTAMP
		WHERE
		  id = ?;
	`)
	if _, err := h.ExecContext(ctx, query,
		t.Name, t.Description, t.Status, t.UserID, t.ProjectID,
		t.BillableMinutes, t.DueDate, t.Assignees, id,
	); err != nil {
		return models.Task{}, err
	}

	return s.GetTaskByID(ctx, h, id)
}

// CreateTaskLog implements store.TaskStore.
func (*taskStore) CreateTaskLog(ctx context.Context, h db.Handler, l models.TaskLog) (models.TaskLog, error) {
	query := h.Rebind(`
		INSERT INTO
		  task_logs (task_id, user_id, description, time_start, time_end, time_spent, updated_at)
		VALUES
		  (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query,
		l.TaskID, l.UserID, l.Description, l.TimeStart, l.TimeEnd, l.TimeSpent,
	); err != nil {
		return models.TaskLog{}, err
	}

	var m models.TaskLog
	err := h.GetContext(ctx, &m, h.Rebind(`SELECT * FROM task_logs WHERE id = ?;`), id)
	return m, err
}

// GetTaskLogsByTaskID implements store.TaskStore.
func (*taskStore) GetTaskLogsByTaskID(ctx context.Context, h db.Handler, taskID int64) ([]models.TaskLog, error) {
	var m []models.TaskLog
	query := h.Rebind(`SELECT * FROM task_logs WHERE task_id = ? ORDER BY id ASC;`)
	err := h.SelectContext(ctx, &m, query, taskID)
	return m, err
}

// CreateTaskComment implements store.TaskStore.
func (*taskStore) CreateTaskComment(ctx context.Context, h db.Handler, c models.TaskComment) (models.TaskComment, error) {
	query := h.Rebind(`
		INSERT INTO
		  task_comments (task_id, user_id, comment, updated_at)
		VALUES
		  (?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query, c.TaskID, c.UserID, c.Comment); err != nil {
		return models.TaskComment{}, err
	}

	var m models.TaskComment
	err := h.GetContext(ctx, &m, h.Rebind(`SELECT * FROM task_comments WHERE id = ?;`), id)
	return m, err
}

// GetTaskCommentsByTaskID implements store.TaskStore.
func (*taskStore) GetTaskCommentsByTaskID(ctx context.Context, h db.Handler, taskID int64) ([]models.TaskComment, error) {
	var m []models.TaskComment
	query := h.Rebind(`SELECT * FROM task_comments WHERE task_id = ? ORDER BY id ASC;`)
	err := h.SelectContext(ctx, &m, query, taskID)
	return m, err
}
