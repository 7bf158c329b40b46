package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/marinesurvey/inspector/internal/common"
)

const genericErrorMessage = "Something went wrong!"

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorConflict):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope for err. Server errors are logged and only
// carry details when the server exposes errors.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status < http.StatusInternalServerError {
		writeError(w, status, common.MessageOf(err, http.StatusText(status)))
		return
	}

	s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	resp := errorResponse{Message: common.MessageOf(err, genericErrorMessage)}
	if s.exposeErrors {
		resp.Error = err.Error()
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a JSON request body of at most 1 MiB into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.WrapError(common.ErrorValidation, "Invalid request body", err)
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for bodies that may be empty; an empty
// body leaves v untouched.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) error {
	err := decodeJSON(w, r, v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
