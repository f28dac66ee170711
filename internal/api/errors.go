package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/glossary-core/internal/term"
)

// detailResponse is the body of every error response. Detail is a string
// for simple errors and a list of term.FieldError for validation failures.
type detailResponse struct {
	Detail any `json:"detail"`
}

// Fixed error details.
const (
	detailTermNotFound     = "Term not found"
	detailInternal         = "Internal Server Error"
	detailBodyTooLarge     = "Request body too large"
	detailNotFound         = "Not Found"
	detailMethodNotAllowed = "Method Not Allowed"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeDetail writes {"detail": message}.
func writeDetail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, detailResponse{Detail: message})
}

// writeValidationError writes a 422 with field-level detail.
func writeValidationError(w http.ResponseWriter, errs []term.FieldError) {
	writeJSON(w, http.StatusUnprocessableEntity, detailResponse{Detail: errs})
}

// writeInternalError writes a 500 without leaking the cause.
func writeInternalError(w http.ResponseWriter) {
	writeDetail(w, http.StatusInternalServerError, detailInternal)
}

// writeTermError maps an error from the term layer onto a response.
// Anything that is neither not-found nor a validation failure is logged and
// reported as a 500.
func (s *Server) writeTermError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *term.ValidationError
	switch {
	case errors.Is(err, term.ErrTermNotFound):
		writeDetail(w, http.StatusNotFound, detailTermNotFound)
	case errors.As(err, &verr):
		writeValidationError(w, verr.Errors)
	default:
		s.logger.Error("term operation failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestIDFrom(r.Context()),
		)
		writeInternalError(w)
	}
}
