// Package respond writes the JSON envelopes shared by handlers and
// middleware: {"data": ...} on success and {"error", "message", "issues"} on
// failure.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/templui/macrotrack/internal/apperror"
)

type envelope struct {
	Data any `json:"data"`
}

type errorBody struct {
	Error   apperror.Kind     `json:"error"`
	Message string            `json:"message"`
	Issues  map[string]string `json:"issues,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Data(w http.ResponseWriter, status int, data any) {
	JSON(w, status, envelope{Data: data})
}

// Error renders err with the status of its kind. Errors without a kind are
// internal failures and their detail is only logged.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.As(err)
	if appErr == nil {
		slog.Error("unhandled error", "error", err, "method", r.Method, "path", r.URL.Path)
		appErr = &apperror.Error{Kind: apperror.KindPersistence, Message: "Internal server error"}
	}

	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
	}

	JSON(w, status, errorBody{
		Error:   appErr.Kind,
		Message: appErr.Message,
		Issues:  appErr.Issues,
	})
}
