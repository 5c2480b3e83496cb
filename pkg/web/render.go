package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/taskmill/taskmill/pkg/proto"
)

// maxBodyBytes bounds request bodies of the management API.
const maxBodyBytes = 1 << 20

func renderStatus(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		io.WriteString(w, fmt.Sprintf("%d %s", code, http.StatusText(code))) //nolint:errcheck,gosec
	}
}

func renderNotFound(w http.ResponseWriter, r *http.Request) {
	renderJSONError(w, http.StatusNotFound, "not found")
}

// renderJSON writes v as the JSON response body.
func renderJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	json.NewEncoder(w).Encode(v) //nolint:errcheck,gosec
}

type errorResponse struct {
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func renderJSONError(w http.ResponseWriter, code int, msg string) {
	renderJSON(w, code, errorResponse{Message: msg})
}

// renderError maps a backend error to a response. Unexpected errors are
// logged and hidden from the client.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *proto.ValidationError
	switch {
	case errors.As(err, &verr):
		renderJSON(w, http.StatusUnprocessableEntity, errorResponse{Errors: verr.Fields})
	case errors.Is(err, proto.ErrNotFound):
		renderJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, proto.ErrAlreadyExists), errors.Is(err, proto.ErrInUse):
		renderJSONError(w, http.StatusConflict, err.Error())
	default:
		log.FromContext(r.Context()).Error("request failed", "err", err)
		renderJSONError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

// decodeJSON reads the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		renderJSONError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// pathID returns the numeric {id} route variable.
func pathID(w http.ResponseWriter, r *http.Request, notFound error) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		renderJSONError(w, http.StatusNotFound, notFound.Error())
		return 0, false
	}
	return id, true
}
