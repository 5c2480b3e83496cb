package web

import (
	"net/http"

	"github.com/taskmill/taskmill/pkg/backend"
	"github.com/taskmill/taskmill/pkg/proto"
	"github.com/taskmill/taskmill/pkg/webhook"
)

func listTasks(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	ts, err := be.Tasks(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, ts)
}

func createTask(w http.ResponseWriter, r *http.Request) {
	var opts backend.TaskOptions
	if !decodeJSON(w, r, &opts) {
		return
	}

	be := backend.FromContext(r.Context())
	t, err := be.CreateTask(r.Context(), opts)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, t)
}

func getTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrTaskNotFound)
	if !ok {
		return
	}

	be := backend.FromContext(r.Context())
	t, err := be.Task(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, t)
}

func updateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrTaskNotFound)
	if !ok {
		return
	}
	var opts backend.TaskOptions
	if !decodeJSON(w, r, &opts) {
		return
	}

	be := backend.FromContext(r.Context())
	t, err := be.UpdateTask(r.Context(), id, opts)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, t)
}

func deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrTaskNotFound)
	if !ok {
		return
	}

	be := backend.FromContext(r.Context())
	if err := be.DeleteTask(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func listTaskComments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrTaskNotFound)
	if !ok {
		return
	}

	be := backend.FromContext(r.Context())
	cs, err := be.TaskComments(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, cs)
}

func createTaskComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrTaskNotFound)
	if !ok {
		return
	}
	var opts backend.TaskCommentOptions
	if !decodeJSON(w, r, &opts) {
		return
	}

	be := backend.FromContext(r.Context())
	c, err := be.CommentTask(r.Context(), id, opts)
	if err != nil {
		renderError(w, r, err)
		return
	}

	be.Dispatch(r.Context(), webhook.ActionTaskComment, c)
	renderJSON(w, http.StatusCreated, c)
}

func listTaskLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrTaskNotFound)
	if !ok {
		return
	}

	be := backend.FromContext(r.Context())
	ls, err := be.TaskLogs(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, ls)
}

func createTaskLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrTaskNotFound)
	if !ok {
		return
	}
	var opts backend.TaskLogOptions
	if !decodeJSON(w, r, &opts) {
		return
	}

	be := backend.FromContext(r.Context())
	l, err := be.LogTime(r.Context(), id, opts)
	if err != nil {
		renderError(w, r, err)
		return
	}

	be.Dispatch(r.Context(), webhook.ActionTaskLog, l)
	renderJSON(w, http.StatusCreated, l)
}
