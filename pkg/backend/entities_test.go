package backend

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/taskmill/taskmill/pkg/access"
	"github.com/taskmill/taskmill/pkg/proto"
	"github.com/taskmill/taskmill/pkg/webhook"
)

func TestProjectEvents(t *testing.T) {
	is := is.New(t)
	ctx, be := setup(t)

	created := newReceiver(t, http.StatusOK)
	deleted := newReceiver(t, http.StatusInternalServerError)
	createHook(t, ctx, be, "project.create", created.URL)
	dh := createHook(t, ctx, be, "project.delete", deleted.URL)

	userID := createUser(t, ctx, be, "ada@example.test")
	p, err := be.CreateProject(ctx, ProjectOptions{Name: "  Apollo ", UserID: userID})
	is.NoErr(err)
	is.Equal(p.Name, "Apollo")
	is.Equal(p.Status, DefaultStatus)

	want, err := json.Marshal(p)
	is.NoErr(err)
	is.Equal(created.received(), []string{string(want)})

	snapshot, err := be.Project(ctx, p.ID)
	is.NoErr(err)
	want, err = json.Marshal(snapshot)
	is.NoErr(err)

	is.NoErr(be.DeleteProject(ctx, p.ID))
	is.Equal(deleted.received(), []string{string(want)}) // the project as it was

	logs, err := be.LatestWebhookLogs(ctx, dh.ID, 0)
	is.NoErr(err)
	is.Equal(len(logs), 1)
	is.Equal(*logs[0].StatusCode, http.StatusInternalServerError)
	is.Equal(logs[0].Payload, string(want))
	is.Equal(logs[0].Action, "project.delete")

	_, err = be.Project(ctx, p.ID)
	is.True(errors.Is(err, proto.ErrProjectNotFound))
	is.True(errors.Is(be.DeleteProject(ctx, p.ID), proto.ErrProjectNotFound))
}

func TestProjectValidation(t *testing.T) {
	is := is.New(t)
	ctx, be := setup(t)

	_, err := be.CreateProject(ctx, ProjectOptions{UserID: 42})
	var verr *proto.ValidationError
	is.True(errors.As(err, &verr))
	is.Equal(verr.Fields["name"], "is required")
	is.Equal(verr.Fields["user_id"], "does not exist")

	_, err = be.UpdateProject(ctx, 42, ProjectOptions{Name: "x"})
	is.True(errors.Is(err, proto.ErrProjectNotFound))
}

func TestTaskEvents(t *testing.T) {
	is := is.New(t)
	ctx, be := setup(t)

	rcv := newReceiver(t, http.StatusOK)
	other := newReceiver(t, http.StatusOK)
	h := createHook(t, ctx, be, "task.update", rcv.URL)
	createHook(t, ctx, be, "task.delete", other.URL)

	userID := createUser(t, ctx, be, "ada@example.test")
	p, err := be.CreateProject(ctx, ProjectOptions{Name: "Apollo", UserID: userID})
	is.NoErr(err)

	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	minutes := int64(90)
	task, err := be.CreateTask(ctx, TaskOptions{
		Name:            "Launch",
		UserID:          userID,
		ProjectID:       p.ID,
		BillableMinutes: &minutes,
		DueDate:         &due,
		Assignees:       []int64{userID},
	})
	is.NoErr(err)
	is.Equal(len(rcv.received()), 0) // no task.create subscription

	task, err = be.UpdateTask(ctx, task.ID, TaskOptions{Name: "Land", UserID: userID, ProjectID: p.ID, Status: "done"})
	is.NoErr(err)
	is.Equal(task.Status, "done")

	bodies := rcv.received()
	is.Equal(len(bodies), 1)
	var payload map[string]any
	is.NoErr(json.Unmarshal([]byte(bodies[0]), &payload))
	is.Equal(payload["name"], "Land")
	is.Equal(payload["project_id"], float64(p.ID))

	tasks, err := be.ProjectTasks(ctx, p.ID)
	is.NoErr(err)
	is.Equal(len(tasks), 1)

	logs, err := be.LatestWebhookLogs(ctx, h.ID, 0)
	is.NoErr(err)
	is.Equal(len(logs), 1)

	// Deleting the project removes its tasks without task events.
	is.NoErr(be.DeleteProject(ctx, p.ID))
	is.Equal(len(other.received()), 0)
	_, err = be.Task(ctx, task.ID)
	is.True(errors.Is(err, proto.ErrTaskNotFound))
}

func TestTaskValidation(t *testing.T) {
	is := is.New(t)
	ctx, be := setup(t)

	userID := createUser(t, ctx, be, "ada@example.test")
	negative := int64(-1)
	_, err := be.CreateTask(ctx, TaskOptions{
		UserID:          userID,
		ProjectID:       7,
		BillableMinutes: &negative,
		Assignees:       []int64{99},
	})
	var verr *proto.ValidationError
	is.True(errors.As(err, &verr))
	is.Equal(len(verr.Fields), 4)
	is.Equal(verr.Fields["project_id"], "does not exist")
	is.Equal(verr.Fields["assignees"], "does not exist")
}

func TestTaskLogsAndComments(t *testing.T) {
	is := is.New(t)
	ctx, be := setup(t)

	rcv := newReceiver(t, http.StatusOK)
	createHook(t, ctx, be, "task.log", rcv.URL)
	createHook(t, ctx, be, "task.comment", rcv.URL)

	userID := createUser(t, ctx, be, "ada@example.test")
	p, err := be.CreateProject(ctx, ProjectOptions{Name: "Apollo", UserID: userID})
	is.NoErr(err)
	task, err := be.CreateTask(ctx, TaskOptions{Name: "Launch", UserID: userID, ProjectID: p.ID})
	is.NoErr(err)

	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(75 * time.Minute)
	l, err := be.LogTime(ctx, task.ID, TaskLogOptions{UserID: &userID, TimeStart: &start, TimeEnd: &end})
	is.NoErr(err)
	is.Equal(l.TimeSpent, int64(75))

	_, err = be.LogTime(ctx, task.ID, TaskLogOptions{})
	is.True(proto.IsValidationError(err))
	_, err = be.LogTime(ctx, 999, TaskLogOptions{TimeSpent: 5})
	is.True(errors.Is(err, proto.ErrTaskNotFound))

	c, err := be.CommentTask(ctx, task.ID, TaskCommentOptions{UserID: &userID, Comment: "Go for launch"})
	is.NoErr(err)
	is.Equal(c.Comment, "Go for launch")
	_, err = be.CommentTask(ctx, task.ID, TaskCommentOptions{Comment: "  "})
	is.True(proto.IsValidationError(err))

	is.Equal(len(rcv.received()), 0) // logs and comments are dispatched by the caller

	be.Dispatch(ctx, webhook.ActionTaskComment, c)
	is.Equal(len(rcv.received()), 1)

	logs, err := be.TaskLogs(ctx, task.ID)
	is.NoErr(err)
	is.Equal(len(logs), 1)
	comments, err := be.TaskComments(ctx, task.ID)
	is.NoErr(err)
	is.Equal(len(comments), 1)
}

func TestUsers(t *testing.T) {
	is := is.New(t)
	ctx, be := setup(t)

	rcv := newReceiver(t, http.StatusOK)
	createHook(t, ctx, be, "user.create", rcv.URL)

	u, err := be.CreateUser(ctx, UserOptions{Name: "Ada", Email: " Ada@Example.TEST ", Password: "hunter22"})
	is.NoErr(err)
	is.Equal(u.Email, "ada@example.test")

	bodies := rcv.received()
	is.Equal(len(bodies), 1)
	var payload map[string]any
	is.NoErr(json.Unmarshal([]byte(bodies[0]), &payload))
	_, ok := payload["password_hash"]
	is.True(!ok) // never leaks the password

	_, err = be.CreateUser(ctx, UserOptions{Name: "Ada", Email: "ada@example.test", Password: "x"})
	is.True(errors.Is(err, proto.ErrAlreadyExists))

	_, err = be.CreateUser(ctx, UserOptions{Email: "nope"})
	var verr *proto.ValidationError
	is.True(errors.As(err, &verr))
	is.Equal(len(verr.Fields), 3)

	_, err = be.Authenticate(ctx, "ADA@example.test", "hunter22")
	is.NoErr(err)
	_, err = be.Authenticate(ctx, "ada@example.test", "wrong")
	is.True(errors.Is(err, proto.ErrUserNotFound))

	_, err = be.UpdateUser(ctx, u.ID, UserOptions{Name: "Ada L", Email: u.Email, Password: "correct horse"})
	is.NoErr(err)
	_, err = be.Authenticate(ctx, u.Email, "correct horse")
	is.NoErr(err)

	_, err = be.CreateProject(ctx, ProjectOptions{Name: "Apollo", UserID: u.ID})
	is.NoErr(err)
	is.True(errors.Is(be.DeleteUser(ctx, u.ID), proto.ErrInUse))
}

func TestRolesAndAbilities(t *testing.T) {
	is := is.New(t)
	ctx, be := setup(t)

	_, err := be.CreateRole(ctx, RoleOptions{APIName: "pm", Name: "PM", Abilities: []string{"task.create", "task.fly"}})
	var verr *proto.ValidationError
	is.True(errors.As(err, &verr))
	is.Equal(verr.Fields["abilities.1"], "is not a known ability")

	r, err := be.CreateRole(ctx, RoleOptions{APIName: "pm", Name: "PM", Abilities: []string{"task.create", "project.view_all"}})
	is.NoErr(err)

	_, err = be.CreateRole(ctx, RoleOptions{APIName: "pm", Name: "Other"})
	is.True(errors.Is(err, proto.ErrAlreadyExists))

	u, err := be.CreateUser(ctx, UserOptions{Name: "Ada", Email: "ada@example.test", Password: "x", RoleID: &r.ID})
	is.NoErr(err)
	is.True(be.UserCan(ctx, u.ID, access.TaskCreate))
	is.True(!be.UserCan(ctx, u.ID, access.RoleDelete))

	old, err := be.DeleteRole(ctx, r.ID)
	is.NoErr(err)
	is.Equal(old.APIName, "pm")

	set, err := be.UserAbilities(ctx, u.ID)
	is.NoErr(err)
	is.Equal(len(set), 0) // the user lost the role

	missing := int64(404)
	_, err = be.CreateUser(ctx, UserOptions{Name: "Bob", Email: "bob@example.test", Password: "x", RoleID: &missing})
	is.True(errors.As(err, &verr))
	is.Equal(verr.Fields["role_id"], "does not exist")
}
