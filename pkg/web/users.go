package web

import (
	"net/http"

	"github.com/taskmill/taskmill/pkg/backend"
	"github.com/taskmill/taskmill/pkg/proto"
)

func listUsers(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	us, err := be.Users(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, us)
}

func createUser(w http.ResponseWriter, r *http.Request) {
	var opts backend.UserOptions
	if !decodeJSON(w, r, &opts) {
		return
	}

	be := backend.FromContext(r.Context())
	u, err := be.CreateUser(r.Context(), opts)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, u)
}

func getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrUserNotFound)
	if !ok {
		return
	}

	be := backend.FromContext(r.Context())
	u, err := be.User(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, u)
}

func updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrUserNotFound)
	if !ok {
		return
	}
	var opts backend.UserOptions
	if !decodeJSON(w, r, &opts) {
		return
	}

	be := backend.FromContext(r.Context())
	u, err := be.UpdateUser(r.Context(), id, opts)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, u)
}

func deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrUserNotFound)
	if !ok {
		return
	}

	be := backend.FromContext(r.Context())
	if err := be.DeleteUser(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
