package web

import (
	"net/http"

	"github.com/taskmill/taskmill/pkg/backend"
	"github.com/taskmill/taskmill/pkg/proto"
)

func listProjects(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	ps, err := be.Projects(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, ps)
}

func createProject(w http.ResponseWriter, r *http.Request) {
	var opts backend.ProjectOptions
	if !decodeJSON(w, r, &opts) {
		return
	}

	be := backend.FromContext(r.Context())
	p, err := be.CreateProject(r.Context(), opts)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, p)
}

func getProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrProjectNotFound)
	if !ok {
		return
	}

	be := backend.FromContext(r.Context())
	p, err := be.Project(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, p)
}

func updateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrProjectNotFound)
	if !ok {
		return
	}
	var opts backend.ProjectOptions
	if !decodeJSON(w, r, &opts) {
		return
	}

	be := backend.FromContext(r.Context())
	p, err := be.UpdateProject(r.Context(), id, opts)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, p)
}

func deleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrProjectNotFound)
	if !ok {
		return
	}

	be := backend.FromContext(r.Context())
	if err := be.DeleteProject(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func listProjectTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrProjectNotFound)
	if !ok {
		return
	}

	be := backend.FromContext(r.Context())
	ts, err := be.ProjectTasks(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, ts)
}
