package backend

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/models"
	"github.com/taskmill/taskmill/pkg/proto"
)

// TaskOptions are the writable fields of a task.
type TaskOptions struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	UserID          int64      `json:"user_id"`
	ProjectID       int64      `json:"project_id"`
	BillableMinutes *int64     `json:"billable_minutes"`
	DueDate         *time.Time `json:"due_date"`
	Assignees       []int64    `json:"assignees"`
}

func (o *TaskOptions) normalize() {
	o.Name = strings.TrimSpace(o.Name)
	if o.Status == "" {
		o.Status = DefaultStatus
	}
}

func (o TaskOptions) model() models.Task {
	return models.Task{
		Name:            o.Name,
		Description:     o.Description,
		Status:          o.Status,
		UserID:          o.UserID,
		ProjectID:       o.ProjectID,
		BillableMinutes: o.BillableMinutes,
		DueDate:         o.DueDate,
		Assignees:       o.Assignees,
	}
}

func (d *Backend) validateTask(ctx context.Context, tx *db.Tx, o TaskOptions) error {
	verr := proto.NewValidationError()
	if o.Name == "" {
		verr.Add("name", "is required")
	}
	if o.BillableMinutes != nil && *o.BillableMinutes < 0 {
		verr.Add("billable_minutes", "must not be negative")
	}
	if err := d.checkUser(ctx, tx, o.UserID, "user_id", verr); err != nil {
		return err
	}
	if o.ProjectID == 0 {
		verr.Add("project_id", "is required")
	} else if _, err := d.store.GetProjectByID(ctx, tx, o.ProjectID); err != nil {
		if !errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return err
		}
		verr.Add("project_id", "does not exist")
	}
	for _, id := range o.Assignees {
		if err := d.checkUser(ctx, tx, id, "assignees", verr); err != nil {
			return err
		}
	}
	return verr.Err()
}

// Tasks returns every task.
func (d *Backend) Tasks(ctx context.Context) ([]models.Task, error) {
	var ms []models.Task
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		ms, err = d.store.GetAllTasks(ctx, tx)
		return err
	}); err != nil {
		return nil, db.WrapError(err)
	}
	return ms, nil
}

// ProjectTasks returns the tasks of a project.
func (d *Backend) ProjectTasks(ctx context.Context, projectID int64) ([]models.Task, error) {
	var ms []models.Task
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetProjectByID(ctx, tx, projectID); err != nil {
			return err
		}
		var err error
		ms, err = d.store.GetTasksByProjectID(ctx, tx, projectID)
		return err
	}); err != nil {
		return nil, wrapError(err, proto.ErrProjectNotFound)
	}
	return ms, nil
}

// Task returns a task.
func (d *Backend) Task(ctx context.Context, id int64) (models.Task, error) {
	var m models.Task
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetTaskByID(ctx, tx, id)
		return err
	}); err != nil {
		return models.Task{}, wrapError(err, proto.ErrTaskNotFound)
	}
	return m, nil
}

// CreateTask creates a task and emits task.create.
func (d *Backend) CreateTask(ctx context.Context, o TaskOptions) (models.Task, error) {
	o.normalize()

	var m models.Task
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := d.validateTask(ctx, tx, o); err != nil {
			return err
		}

		var err error
		m, err = d.store.CreateTask(ctx, tx, o.model())
		return err
	}); err != nil {
		return models.Task{}, wrapError(err, proto.ErrTaskNotFound)
	}

	d.emitEntity(ctx, "task", "create", m)
	return m, nil
}

// UpdateTask updates a task and emits task.update.
func (d *Backend) UpdateTask(ctx context.Context, id int64, o TaskOptions) (models.Task, error) {
	o.normalize()

	var m models.Task
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetTaskByID(ctx, tx, id); err != nil {
			return err
		}
		if err := d.validateTask(ctx, tx, o); err != nil {
			return err
		}

		var err error
		m, err = d.store.UpdateTaskByID(ctx, tx, id, o.model())
		return err
	}); err != nil {
		return models.Task{}, wrapError(err, proto.ErrTaskNotFound)
	}

	d.emitEntity(ctx, "task", "update", m)
	return m, nil
}

// DeleteTask deletes a task and emits task.delete with the task as it was
// before deletion.
func (d *Backend) DeleteTask(ctx context.Context, id int64) error {
	var m models.Task
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetTaskByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return d.store.DeleteTaskByID(ctx, tx, id)
	}); err != nil {
		return wrapError(err, proto.ErrTaskNotFound)
	}

	d.emitEntity(ctx, "task", "delete", m)
	return nil
}

// TaskLogOptions describe time spent on a task.
type TaskLogOptions struct {
	UserID      *int64     `json:"user_id"`
	Description string     `json:"description"`
	TimeStart   *time.Time `json:"time_start"`
	TimeEnd     *time.Time `json:"time_end"`
	TimeSpent   int64      `json:"time_spent"`
}

// LogTime records time spent on a task. When no duration is given it is
// derived, in minutes, from the start and end times. It does not emit
// task.log; callers dispatch it.
func (d *Backend) LogTime(ctx context.Context, taskID int64, o TaskLogOptions) (models.TaskLog, error) {
	if o.TimeSpent == 0 && o.TimeStart != nil && o.TimeEnd != nil {
		o.TimeSpent = int64(o.TimeEnd.Sub(*o.TimeStart).Minutes())
	}

	verr := proto.NewValidationError()
	if o.TimeSpent <= 0 {
		verr.Add("time_spent", "must be positive")
	}
	if o.TimeStart != nil && o.TimeEnd != nil && o.TimeEnd.Before(*o.TimeStart) {
		verr.Add("time_end", "must not be before time_start")
	}

	var m models.TaskLog
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetTaskByID(ctx, tx, taskID); err != nil {
			return err
		}
		if o.UserID != nil {
			if err := d.checkUser(ctx, tx, *o.UserID, "user_id", verr); err != nil {
				return err
			}
		}
		if err := verr.Err(); err != nil {
			return err
		}

		var err error
		m, err = d.store.CreateTaskLog(ctx, tx, models.TaskLog{
			TaskID:      taskID,
			UserID:      o.UserID,
			Description: o.Description,
			TimeStart:   o.TimeStart,
			TimeEnd:     o.TimeEnd,
			TimeSpent:   o.TimeSpent,
		})
		return err
	}); err != nil {
		return models.TaskLog{}, wrapError(err, proto.ErrTaskNotFound)
	}

	return m, nil
}

// TaskLogs returns the time logged on a task.
func (d *Backend) TaskLogs(ctx context.Context, taskID int64) ([]models.TaskLog, error) {
	var ms []models.TaskLog
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetTaskByID(ctx, tx, taskID); err != nil {
			return err
		}
		var err error
		ms, err = d.store.GetTaskLogsByTaskID(ctx, tx, taskID)
		return err
	}); err != nil {
		return nil, wrapError(err, proto.ErrTaskNotFound)
	}
	return ms, nil
}

// TaskCommentOptions describe a comment on a task.
type TaskCommentOptions struct {
	UserID  *int64 `json:"user_id"`
	Comment string `json:"comment"`
}

// CommentTask adds a comment to a task. It does not emit task.comment;
// callers dispatch it.
func (d *Backend) CommentTask(ctx context.Context, taskID int64, o TaskCommentOptions) (models.TaskComment, error) {
	verr := proto.NewValidationError()
	if strings.TrimSpace(o.Comment) == "" {
		verr.Add("comment", "is required")
	}

	var m models.TaskComment
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetTaskByID(ctx, tx, taskID); err != nil {
			return err
		}
		if o.UserID != nil {
			if err := d.checkUser(ctx, tx, *o.UserID, "user_id", verr); err != nil {
				return err
			}
		}
		if err := verr.Err(); err != nil {
			return err
		}

		var err error
		m, err = d.store.CreateTaskComment(ctx, tx, models.TaskComment{TaskID: taskID, UserID: o.UserID, Comment: o.Comment})
		return err
	}); err != nil {
		return models.TaskComment{}, wrapError(err, proto.ErrTaskNotFound)
	}

	return m, nil
}

// TaskComments returns the comments on a task.
func (d *Backend) TaskComments(ctx context.Context, taskID int64) ([]models.TaskComment, error) {
	var ms []models.TaskComment
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetTaskByID(ctx, tx, taskID); err != nil {
			return err
		}
		var err error
		ms, err = d.store.GetTaskCommentsByTaskID(ctx, tx, taskID)
		return err
	}); err != nil {
		return nil, wrapError(err, proto.ErrTaskNotFound)
	}
	return ms, nil
}
