// Package httpx holds small JSON response helpers shared by all handlers.
package httpx

import (
	goerrors "errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/openagora/agora/pkg/errors"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Code    errors.ErrorCode       `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RenderError writes a structured error as JSON using the error's mapped
// HTTP status. Unstructured errors are logged and collapsed to a generic 500
// so internals never leak to callers.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	var structured *errors.Error
	if !goerrors.As(err, &structured) {
		slog.Error("unstructured error reached handler", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{
			Code:    errors.ErrCodeInternal,
			Message: "internal server error",
		})
		return
	}

	render.Status(r, structured.HTTPStatusCode())
	render.JSON(w, r, ErrorResponse{
		Code:    structured.Code,
		Message: structured.Message,
		Details: structured.Details,
	})
}

// RenderJSON writes v with the given status.
func RenderJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// RenderNoContent writes an empty 204 response.
func RenderNoContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
