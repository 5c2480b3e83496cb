package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/taskmill/taskmill/pkg/config"
	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/migrate"
	"github.com/taskmill/taskmill/pkg/db/models"
	"github.com/taskmill/taskmill/pkg/store"
)

func setup(tb testing.TB) (context.Context, *db.DB, store.Store) {
	tb.Helper()
	is := is.New(tb)
	ctx := config.WithContext(context.TODO(), config.DefaultConfig())
	dsn := filepath.Join(tb.TempDir(), "store.db") +
		"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	dbx, err := db.Open(ctx, "sqlite", dsn)
	is.NoErr(err)
	tb.Cleanup(func() { _ = dbx.Close() })
	is.NoErr(migrate.Migrate(ctx, dbx))
	return ctx, dbx, New(ctx, dbx)
}

func TestWebhookStore(t *testing.T) {
	is := is.New(t)
	ctx, dbx, s := setup(t)

	headers := []models.Header{{Key: "X-Token", Value: "abc"}}
	wh, err := s.CreateWebhook(ctx, dbx, "task.create", "https://example.test/hook", headers, "s3cr3t", true)
	is.NoErr(err)
	is.True(wh.ID > 0)
	is.Equal(wh.Action, "task.create")
	is.Equal([]models.Header(wh.Headers), headers)
	is.Equal(wh.HMACSecret, "s3cr3t")
	is.True(wh.Enabled)
	is.True(!wh.CreatedAt.IsZero())

	other, err := s.CreateWebhook(ctx, dbx, "task.update", "https://example.test/other", nil, "", false)
	is.NoErr(err)
	is.Equal(len(other.Headers), 0)
	is.True(!other.Enabled)

	all, err := s.GetWebhooks(ctx, dbx)
	is.NoErr(err)
	is.Equal(len(all), 2)
	is.Equal(all[0].ID, other.ID) // newest first

	byAction, err := s.GetWebhooksByAction(ctx, dbx, "task.create")
	is.NoErr(err)
	is.Equal(len(byAction), 1)
	is.Equal(byAction[0].ID, wh.ID)

	updated, err := s.UpdateWebhookByID(ctx, dbx, wh.ID, "task.delete", "http://example.test/new", nil, "")
	is.NoErr(err)
	is.Equal(updated.Action, "task.delete")
	is.Equal(updated.URL, "http://example.test/new")
	is.Equal(len(updated.Headers), 0)
	is.Equal(updated.HMACSecret, "")
	is.True(updated.Enabled) // untouched by updates

	is.NoErr(s.SetWebhookEnabledByID(ctx, dbx, wh.ID, false))
	got, err := s.GetWebhookByID(ctx, dbx, wh.ID)
	is.NoErr(err)
	is.True(!got.Enabled)

	is.NoErr(s.DeleteWebhookByID(ctx, dbx, wh.ID))
	_, err = s.GetWebhookByID(ctx, dbx, wh.ID)
	is.True(errors.Is(err, sql.ErrNoRows))
}

func TestWebhookLogStore(t *testing.T) {
	is := is.New(t)
	ctx, dbx, s := setup(t)

	wh, err := s.CreateWebhook(ctx, dbx, "project.create", "https://example.test/hook", nil, "", true)
	is.NoErr(err)

	for i := 0; i < 3; i++ {
		_, err := s.CreateWebhookLog(ctx, dbx, models.WebhookLog{
			WebhookID:  wh.ID,
			DeliveryID: "d",
			Action:     "project.create",
			Payload:    `{"id":1}`,
			Response:   "ok",
			StatusCode: sql.NullInt64{Int64: 200, Valid: true},
			DurationMs: 12,
		})
		is.NoErr(err)
	}
	failed, err := s.CreateWebhookLog(ctx, dbx, models.WebhookLog{
		WebhookID: wh.ID,
		Action:    "project.create",
		Payload:   `{"id":2}`,
		Response:  "connection refused",
	})
	is.NoErr(err)
	is.True(!failed.StatusCode.Valid)

	logs, err := s.GetWebhookLogsByWebhookID(ctx, dbx, wh.ID, 2)
	is.NoErr(err)
	is.Equal(len(logs), 2)
	is.Equal(logs[0].ID, failed.ID) // newest first

	got, err := s.GetWebhookLogByID(ctx, dbx, wh.ID, failed.ID)
	is.NoErr(err)
	is.Equal(got.Response, "connection refused")
	_, err = s.GetWebhookLogByID(ctx, dbx, wh.ID+1, failed.ID)
	is.True(errors.Is(err, sql.ErrNoRows))

	n, err := s.DeleteWebhookLogsBefore(ctx, dbx, time.Now().Add(-time.Hour))
	is.NoErr(err)
	is.Equal(n, int64(0))
	n, err = s.DeleteWebhookLogsBefore(ctx, dbx, time.Now().Add(time.Hour))
	is.NoErr(err)
	is.Equal(n, int64(4))

	_, err = s.CreateWebhookLog(ctx, dbx, models.WebhookLog{WebhookID: wh.ID, Action: "project.create"})
	is.NoErr(err)
	is.NoErr(s.DeleteWebhookLogsByWebhookID(ctx, dbx, wh.ID))
	logs, err = s.GetWebhookLogsByWebhookID(ctx, dbx, wh.ID, 20)
	is.NoErr(err)
	is.Equal(len(logs), 0)
}

func TestWebhookLogForeignKey(t *testing.T) {
	is := is.New(t)
	ctx, dbx, s := setup(t)

	_, err := s.CreateWebhookLog(ctx, dbx, models.WebhookLog{WebhookID: 404, Action: "task.create"})
	is.True(errors.Is(db.WrapError(err), db.ErrForeignKey))
}

func TestEntityStores(t *testing.T) {
	is := is.New(t)
	ctx, dbx, s := setup(t)

	role, err := s.FindRoleByAPIName(ctx, dbx, "developer")
	is.NoErr(err)

	user, err := s.CreateUser(ctx, dbx, "Ada", "Ada@Example.test", "hash", &role.ID)
	is.NoErr(err)
	is.Equal(user.Email, "ada@example.test")
	is.Equal(*user.RoleID, role.ID)

	_, err = s.CreateUser(ctx, dbx, "Ada", "ada@example.test", "hash", nil)
	is.True(errors.Is(db.WrapError(err), db.ErrDuplicateKey))

	found, err := s.FindUserByEmail(ctx, dbx, "ADA@example.test")
	is.NoErr(err)
	is.Equal(found.ID, user.ID)

	project, err := s.CreateProject(ctx, dbx, models.Project{Name: "Apollo", Status: "open", UserID: user.ID})
	is.NoErr(err)
	is.Equal(project.Name, "Apollo")

	minutes := int64(90)
	task, err := s.CreateTask(ctx, dbx, models.Task{
		Name:            "Wire it",
		Status:          "open",
		UserID:          user.ID,
		ProjectID:       project.ID,
		BillableMinutes: &minutes,
		Assignees:       models.JSONList[int64]{user.ID},
	})
	is.NoErr(err)
	is.Equal(*task.BillableMinutes, minutes)
	is.Equal([]int64(task.Assignees), []int64{user.ID})

	task.Status = "done"
	task, err = s.UpdateTaskByID(ctx, dbx, task.ID, task)
	is.NoErr(err)
	is.Equal(task.Status, "done")

	tl, err := s.CreateTaskLog(ctx, dbx, models.TaskLog{TaskID: task.ID, UserID: &user.ID, TimeSpent: 30})
	is.NoErr(err)
	is.Equal(tl.TimeSpent, int64(30))

	c, err := s.CreateTaskComment(ctx, dbx, models.TaskComment{TaskID: task.ID, UserID: &user.ID, Comment: "looks good"})
	is.NoErr(err)
	is.Equal(c.Comment, "looks good")

	comments, err := s.GetTaskCommentsByTaskID(ctx, dbx, task.ID)
	is.NoErr(err)
	is.Equal(len(comments), 1)

	// Users owning projects cannot be removed.
	err = s.DeleteUserByID(ctx, dbx, user.ID)
	is.True(errors.Is(db.WrapError(err), db.ErrForeignKey))

	is.NoErr(s.DeleteProjectByID(ctx, dbx, project.ID))
	tasks, err := s.GetTasksByProjectID(ctx, dbx, project.ID)
	is.NoErr(err)
	is.Equal(len(tasks), 0)

	is.NoErr(s.DeleteRoleByID(ctx, dbx, role.ID))
	user, err = s.GetUserByID(ctx, dbx, user.ID)
	is.NoErr(err)
	is.True(user.RoleID == nil)
}
