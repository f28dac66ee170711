package term

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTermNotFound is returned when no term has the requested id.
var ErrTermNotFound = errors.New("term not found")

// Validation error types reported in FieldError.Type.
const (
	ErrTypeMissing             = "missing"
	ErrTypeStringType          = "string_type"
	ErrTypeJSONInvalid         = "json_invalid"
	ErrTypeModelAttributesType = "model_attributes_type"
	ErrTypeIntParsing          = "int_parsing"
)

// FieldError describes one validation failure.
//
// Loc is the path to the offending value, starting with where it came from
// ("body" or "path"), e.g. ["body", "word"] or ["path", "term_id"].
type FieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// ValidationError collects every FieldError found in one request.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%v: %s", fe.Loc, fe.Msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add appends a field error.
func (e *ValidationError) add(typ, msg string, loc ...any) {
	e.Errors = append(e.Errors, FieldError{Loc: loc, Msg: msg, Type: typ})
}

// orNil returns e when it holds errors, nil otherwise.
func (e *ValidationError) orNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
