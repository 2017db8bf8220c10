package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fincontext/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error(ctx, "error writing response", "error", err.Error())
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		// do not leak internals to the client
		err = common.ErrorInternal
	}
	h.writeJSON(ctx, w, status, errorResponse{Error: err.Error()})
}

// statusFromError maps service errors to HTTP status codes. Unknown errors
// stay 500 and leak no detail beyond the generic message.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrDuplicateUsername), errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, common.ErrorInvalidCredentials), errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
