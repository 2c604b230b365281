// Package respond writes JSON responses and the error envelope shared by
// every endpoint.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/ctxkeys"
)

// ErrorBody is the failure envelope. Detail is only filled for client
// errors; server-side causes stay in the logs.
type ErrorBody struct {
	Message string      `json:"message"`
	Kind    apperr.Kind `json:"kind"`
	Detail  string      `json:"error,omitempty"`
}

// MessageBody is returned by operations without a resource to show.
type MessageBody struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("write response failed", "error", err)
	}
}

func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageBody{Message: message})
}

// Error maps err to its status and writes the envelope.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := apperr.Status(kind)

	body := ErrorBody{Kind: kind, Message: "Internal server error"}
	appErr := asAppError(err)
	if appErr != nil && appErr.Message != "" {
		body.Message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"error", err,
			"kind", kind,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
		)
	} else if appErr != nil && appErr.Err != nil {
		body.Detail = appErr.Err.Error()
	}

	JSON(w, status, body)
}

func asAppError(err error) *apperr.Error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
