package term

import (
	"bytes"
	"strconv"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// Body fields, in the order they are validated and reported.
const (
	fieldWord    = "word"
	fieldMeaning = "meaning"
)

// PathParamID is the name reported for an invalid id path segment.
const PathParamID = "term_id"

const (
	msgFieldRequired  = "Field required"
	msgStringType     = "Input should be a valid string"
	msgJSONInvalid    = "JSON decode error"
	msgObjectRequired = "Input should be a valid dictionary or object to extract fields from"
	msgIntParsing     = "Input should be a valid integer, unable to parse string as an integer"
)

// DecodeBase validates a create payload. Both word and meaning must be
// present JSON strings. Unknown fields are ignored.
func DecodeBase(body []byte) (Base, error) {
	obj, verr := parseObject(body)
	if verr != nil {
		return Base{}, verr
	}

	verr = &ValidationError{}
	word := requiredString(obj, fieldWord, verr)
	meaning := requiredString(obj, fieldMeaning, verr)
	if err := verr.orNil(); err != nil {
		return Base{}, err
	}

	return Base{Word: word, Meaning: meaning}, nil
}

// DecodeUpdate validates a merge-patch payload. Absent fields stay unset;
// present fields must be JSON strings (an explicit null is rejected because
// the stored columns are NOT NULL).
func DecodeUpdate(body []byte) (Update, error) {
	obj, verr := parseObject(body)
	if verr != nil {
		return Update{}, verr
	}

	verr = &ValidationError{}
	u := Update{
		Word:    optionalString(obj, fieldWord, verr),
		Meaning: optionalString(obj, fieldMeaning, verr),
	}
	if err := verr.orNil(); err != nil {
		return Update{}, err
	}

	return u, nil
}

// ParseID parses a term id taken from the URL path.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		verr := &ValidationError{}
		verr.add(ErrTypeIntParsing, msgIntParsing, "path", PathParamID)
		return 0, verr
	}
	return id, nil
}

// parseObject checks the body is a JSON object encoded as UTF-8.
func parseObject(body []byte) (gjson.Result, *ValidationError) {
	verr := &ValidationError{}

	if len(bytes.TrimSpace(body)) == 0 {
		verr.add(ErrTypeMissing, msgFieldRequired, "body")
		return gjson.Result{}, verr
	}
	// gjson accepts raw non-UTF-8 bytes inside strings, which would be stored
	// as-is and read back with replacement characters.
	if !utf8.Valid(body) || !gjson.ValidBytes(body) {
		verr.add(ErrTypeJSONInvalid, msgJSONInvalid, "body")
		return gjson.Result{}, verr
	}

	obj := gjson.ParseBytes(body)
	if !obj.IsObject() {
		verr.add(ErrTypeModelAttributesType, msgObjectRequired, "body")
		return gjson.Result{}, verr
	}

	return obj, nil
}

// member returns the value of the named top-level key. When the key is
// repeated the last occurrence wins.
func member(obj gjson.Result, name string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(key, value gjson.Result) bool {
		if key.Str == name {
			found = value
		}
		return true
	})
	return found
}

func requiredString(obj gjson.Result, name string, verr *ValidationError) string {
	v := member(obj, name)
	if !v.Exists() {
		verr.add(ErrTypeMissing, msgFieldRequired, "body", name)
		return ""
	}
	if v.Type != gjson.String {
		verr.add(ErrTypeStringType, msgStringType, "body", name)
		return ""
	}
	return v.Str
}

func optionalString(obj gjson.Result, name string, verr *ValidationError) Field {
	v := member(obj, name)
	if !v.Exists() {
		return Field{}
	}
	if v.Type != gjson.String {
		verr.add(ErrTypeStringType, msgStringType, "body", name)
		return Field{}
	}
	return Some(v.Str)
}
