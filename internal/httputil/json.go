package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

var errTrailingData = errors.New("request body must contain a single JSON value")

// ErrorBody is what every failed API call answers with
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// APIError logs server faults as errors and everything else as warnings
func APIError(w http.ResponseWriter, status int, msg string, err error) {
	APIFieldError(w, status, msg, nil, err)
}

func APIFieldError(w http.ResponseWriter, status int, msg string, fields map[string]string, err error) {
	if status >= http.StatusInternalServerError {
		slog.Error(msg, "status", status, "error", err)
		msg = http.StatusText(status)
	} else if err != nil {
		slog.Warn("request rejected", "status", status, "message", msg, "error", err)
	} else {
		slog.Warn("request rejected", "status", status, "message", msg)
	}
	JSON(w, status, ErrorBody{Error: msg, Fields: fields})
}

// DecodeJSON rejects unknown fields and trailing data
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}
