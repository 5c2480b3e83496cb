package web

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/taskmill/taskmill/pkg/access"
	"github.com/taskmill/taskmill/pkg/webhook"
)

// APIController registers the management API routes.
func APIController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/webhooks", listWebhooks).Methods(http.MethodGet)
	r.HandleFunc("/webhooks", createWebhook).Methods(http.MethodPost)
	r.HandleFunc("/webhooks/{id}", getWebhook).Methods(http.MethodGet)
	r.HandleFunc("/webhooks/{id}", updateWebhook).Methods(http.MethodPut)
	r.HandleFunc("/webhooks/{id}", deleteWebhook).Methods(http.MethodDelete)
	r.HandleFunc("/webhooks/{id}/toggle", toggleWebhook).Methods(http.MethodPost)
	r.HandleFunc("/webhooks/{id}/test", testWebhook).Methods(http.MethodPost)
	r.HandleFunc("/webhooks/{id}/logs", listWebhookLogs).Methods(http.MethodGet)
	r.HandleFunc("/webhooks/{id}/logs/{log_id}", getWebhookLog).Methods(http.MethodGet)

	r.HandleFunc("/projects", listProjects).Methods(http.MethodGet)
	r.HandleFunc("/projects", createProject).Methods(http.MethodPost)
	r.HandleFunc("/projects/{id}", getProject).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id}", updateProject).Methods(http.MethodPut)
	r.HandleFunc("/projects/{id}", deleteProject).Methods(http.MethodDelete)
	r.HandleFunc("/projects/{id}/tasks", listProjectTasks).Methods(http.MethodGet)

	r.HandleFunc("/tasks", listTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks", createTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}", getTask).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}", updateTask).Methods(http.MethodPut)
	r.HandleFunc("/tasks/{id}", deleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/tasks/{id}/comments", listTaskComments).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}/comments", createTaskComment).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}/logs", listTaskLogs).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}/logs", createTaskLog).Methods(http.MethodPost)

	r.HandleFunc("/users", listUsers).Methods(http.MethodGet)
	r.HandleFunc("/users", createUser).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}", getUser).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", updateUser).Methods(http.MethodPut)
	r.HandleFunc("/users/{id}", deleteUser).Methods(http.MethodDelete)

	r.HandleFunc("/roles", listRoles).Methods(http.MethodGet)
	r.HandleFunc("/roles", createRole).Methods(http.MethodPost)
	r.HandleFunc("/roles/{id}", getRole).Methods(http.MethodGet)
	r.HandleFunc("/roles/{id}", updateRole).Methods(http.MethodPut)
	r.HandleFunc("/roles/{id}", deleteRole).Methods(http.MethodDelete)

	r.HandleFunc("/abilities", listAbilities).Methods(http.MethodGet)
	r.HandleFunc("/actions", listActions).Methods(http.MethodGet)
}

func listAbilities(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusOK, access.Abilities())
}

func listActions(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusOK, webhook.Actions())
}
