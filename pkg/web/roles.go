package web

import (
	"net/http"

	"github.com/taskmill/taskmill/pkg/backend"
	"github.com/taskmill/taskmill/pkg/proto"
	"github.com/taskmill/taskmill/pkg/webhook"
)

func listRoles(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	rs, err := be.Roles(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, rs)
}

func createRole(w http.ResponseWriter, r *http.Request) {
	var opts backend.RoleOptions
	if !decodeJSON(w, r, &opts) {
		return
	}

	be := backend.FromContext(r.Context())
	role, err := be.CreateRole(r.Context(), opts)
	if err != nil {
		renderError(w, r, err)
		return
	}

	be.Dispatch(r.Context(), webhook.ActionRoleCreate, role)
	renderJSON(w, http.StatusCreated, role)
}

func getRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrRoleNotFound)
	if !ok {
		return
	}

	be := backend.FromContext(r.Context())
	role, err := be.Role(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, role)
}

func updateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrRoleNotFound)
	if !ok {
		return
	}
	var opts backend.RoleOptions
	if !decodeJSON(w, r, &opts) {
		return
	}

	be := backend.FromContext(r.Context())
	role, err := be.UpdateRole(r.Context(), id, opts)
	if err != nil {
		renderError(w, r, err)
		return
	}

	be.Dispatch(r.Context(), webhook.ActionRoleUpdate, role)
	renderJSON(w, http.StatusOK, role)
}

func deleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrRoleNotFound)
	if !ok {
		return
	}

	be := backend.FromContext(r.Context())
	role, err := be.DeleteRole(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	be.Dispatch(r.Context(), webhook.ActionRoleDelete, role)
	w.WriteHeader(http.StatusNoContent)
}
