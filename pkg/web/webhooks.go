package web

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/taskmill/taskmill/pkg/backend"
	"github.com/taskmill/taskmill/pkg/proto"
	"github.com/taskmill/taskmill/pkg/webhook"
)

func listWebhooks(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	hooks, err := be.ListWebhooks(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, hooks)
}

func createWebhook(w http.ResponseWriter, r *http.Request) {
	var def webhook.Definition
	if !decodeJSON(w, r, &def) {
		return
	}

	be := backend.FromContext(r.Context())
	h, err := be.CreateWebhook(r.Context(), def)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, h)
}

func getWebhook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrWebhookNotFound)
	if !ok {
		return
	}

	be := backend.FromContext(r.Context())
	h, err := be.Webhook(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, h)
}

func updateWebhook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrWebhookNotFound)
	if !ok {
		return
	}
	var def webhook.Definition
	if !decodeJSON(w, r, &def) {
		return
	}

	be := backend.FromContext(r.Context())
	h, err := be.UpdateWebhook(r.Context(), id, def)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, h)
}

func deleteWebhook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrWebhookNotFound)
	if !ok {
		return
	}

	be := backend.FromContext(r.Context())
	if err := be.DeleteWebhook(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toggleWebhook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrWebhookNotFound)
	if !ok {
		return
	}

	be := backend.FromContext(r.Context())
	enabled, err := be.ToggleWebhook(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]bool{"enabled": enabled})
}

// testWebhook answers 200 whenever the endpoint responded, whatever its
// status, and 502 when it could not be reached.
func testWebhook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrWebhookNotFound)
	if !ok {
		return
	}

	be := backend.FromContext(r.Context())
	res, err := be.TestWebhook(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	code := http.StatusOK
	if !res.Success {
		code = http.StatusBadGateway
	}
	renderJSON(w, code, res)
}

func listWebhookLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrWebhookNotFound)
	if !ok {
		return
	}

	var limit int
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			renderJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Errors: map[string]string{"limit": "must be a non-negative number"},
			})
			return
		}
		limit = n
	}

	be := backend.FromContext(r.Context())
	logs, err := be.LatestWebhookLogs(r.Context(), id, limit)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, logs)
}

func getWebhookLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, proto.ErrWebhookNotFound)
	if !ok {
		return
	}
	logID, err := strconv.ParseInt(mux.Vars(r)["log_id"], 10, 64)
	if err != nil {
		renderJSONError(w, http.StatusNotFound, proto.ErrWebhookLogNotFound.Error())
		return
	}

	be := backend.FromContext(r.Context())
	l, err := be.WebhookLog(r.Context(), id, logID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, l)
}
