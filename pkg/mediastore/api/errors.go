package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/creativ-studio/media-store/pkg/mediastore"
)

// ErrorResponse is the stable error shape returned to clients: a machine
// readable code plus a human message.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// renderError maps a service error onto a status code and stable error code.
// When exposeInternal is false (production), 5xx messages are replaced with a
// generic message so internal detail never leaks to callers.
func renderError(w http.ResponseWriter, r *http.Request, err error, exposeInternal bool) {
	var (
		status int
		code   string
	)

	switch {
	case errors.Is(err, mediastore.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, mediastore.ErrNoFile):
		status, code = http.StatusBadRequest, "no_file"
	case errors.Is(err, mediastore.ErrFileTooLarge):
		status, code = http.StatusRequestEntityTooLarge, "file_too_large"
	case errors.Is(err, mediastore.ErrUnsupportedType):
		status, code = http.StatusBadRequest, "unsupported_type"
	case errors.Is(err, mediastore.ErrInvalidID):
		status, code = http.StatusBadRequest, "invalid_id"
	case errors.Is(err, mediastore.ErrBatchTooLarge):
		status, code = http.StatusBadRequest, "batch_size_exceeded"
	case errors.Is(err, mediastore.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	default:
		var storageErr *mediastore.StorageError
		var persistErr *mediastore.PersistenceError
		switch {
		case errors.As(err, &storageErr):
			status, code = http.StatusBadGateway, "storage_failure"
		case errors.As(err, &persistErr):
			status, code = http.StatusInternalServerError, "persistence_failure"
		default:
			status, code = http.StatusInternalServerError, "internal_error"
		}
	}

	message := err.Error()
	if status >= http.StatusInternalServerError && !exposeInternal {
		message = "internal server error"
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Code: code, Message: message})
}
