package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/glossary-core/internal/term"
)

// termIDParam is the chi URL parameter holding the term id.
const termIDParam = term.PathParamID

// handleListTerms returns every stored term.
func (s *Server) handleListTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := s.terms.List(r.Context())
	if err != nil {
		s.writeTermError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, terms)
}

// handleGetTerm returns a single term by id.
func (s *Server) handleGetTerm(w http.ResponseWriter, r *http.Request) {
	id, err := term.ParseID(chi.URLParam(r, termIDParam))
	if err != nil {
		s.writeTermError(w, r, err)
		return
	}

	t, err := s.terms.Get(r.Context(), id)
	if err != nil {
		s.writeTermError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleCreateTerm stores a new term and returns it with its id.
func (s *Server) handleCreateTerm(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	in, err := term.DecodeBase(body)
	if err != nil {
		s.writeTermError(w, r, err)
		return
	}

	t, err := s.terms.Create(r.Context(), in)
	if err != nil {
		s.writeTermError(w, r, err)
		return
	}

	s.publishTermEvent(EventTermCreated, t.ID, t)
	writeJSON(w, http.StatusOK, t)
}

// handleUpdateTerm merges the supplied fields into an existing term.
// Path and body problems are reported together in one 422.
func (s *Server) handleUpdateTerm(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	id, idErr := term.ParseID(chi.URLParam(r, termIDParam))
	patch, bodyErr := term.DecodeUpdate(body)
	if err := joinValidation(idErr, bodyErr); err != nil {
		s.writeTermError(w, r, err)
		return
	}

	t, err := s.terms.Update(r.Context(), id, patch)
	if err != nil {
		s.writeTermError(w, r, err)
		return
	}

	// An empty patch changes nothing, so there is nothing to announce.
	if !patch.IsEmpty() {
		s.publishTermEvent(EventTermUpdated, t.ID, t)
	}
	writeJSON(w, http.StatusOK, t)
}

// handleDeleteTerm removes a term.
func (s *Server) handleDeleteTerm(w http.ResponseWriter, r *http.Request) {
	id, err := term.ParseID(chi.URLParam(r, termIDParam))
	if err != nil {
		s.writeTermError(w, r, err)
		return
	}

	if err := s.terms.Delete(r.Context(), id); err != nil {
		s.writeTermError(w, r, err)
		return
	}

	s.publishTermEvent(EventTermDeleted, id, nil)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// readBody reads the whole request body. On failure it writes the response
// and returns false.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, detailBodyTooLarge)
			return nil, false
		}
		s.writeTermError(w, r, err)
		return nil, false
	}
	return body, true
}

// joinValidation merges validation failures from several sources, in order.
// A non-validation error is returned as is.
func joinValidation(errs ...error) error {
	merged := &term.ValidationError{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *term.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		merged.Errors = append(merged.Errors, verr.Errors...)
	}
	if len(merged.Errors) == 0 {
		return nil
	}
	return merged
}
