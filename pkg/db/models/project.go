package models

import "time"

// Project is a database model for a project.
type Project struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Status    string    `db:"status" json:"status"`
	UserID    int64     `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Task is a unit of work within a project.
type Task struct {
	ID              int64           `db:"id" json:"id"`
	Name            string          `db:"name" json:"name"`
	Description     string          `db:"description" json:"description"`
	Status          string          `db:"status" json:"status"`
	UserID          int64           `db:"user_id" json:"user_id"`
	ProjectID       int64           `db:"project_id" json:"project_id"`
	BillableMinutes *int64          `db:"billable_minutes" json:"billable_minutes"`
	DueDate         *time.Time      `db:"due_date" json:"due_date"`
	Assignees       JSONList[int64] `db:"assignees" json:"assignees"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// TaskLog is time spent on a task.
type TaskLog struct {
	ID          int64      `db:"id" json:"id"`
	TaskID      int64      `db:"task_id" json:"task_id"`
	UserID      *int64     `db:"user_id" json:"user_id"`
	Description string     `db:"description" json:"description"`
	TimeStart   *time.Time `db:"time_start" json:"time_start"`
	TimeEnd     *time.Time `db:"time_end" json:"time_end"`
	TimeSpent   int64      `db:"time_spent" json:"time_spent"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// TaskComment is a comment left on a task.
type TaskComment struct {
	ID        int64     `db:"id" json:"id"`
	TaskID    int64     `db:"task_id" json:"task_id"`
	UserID    *int64    `db:"user_id" json:"user_id"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
