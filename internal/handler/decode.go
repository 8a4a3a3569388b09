package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/templui/macrotrack/internal/apperror"
)

const maxBodyBytes = 64 << 10

// decodeJSON reads a single JSON object from the request body. strict
// rejects fields the target does not declare.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, strict bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if strict {
		dec.DisallowUnknownFields()
	}

	err := dec.Decode(v)
	if err == nil {
		if dec.More() {
			return invalidBody("_", "Body must contain a single JSON object")
		}
		return nil
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	var timeErr *time.ParseError
	switch {
	case errors.Is(err, io.EOF):
		return invalidBody("_", "Body is required")
	case errors.As(err, &syntaxErr):
		return invalidBody("_", "Malformed JSON")
	case errors.As(err, &typeErr):
		return invalidBody(typeErr.Field, "Expected "+typeErr.Type.String())
	case errors.As(err, &timeErr):
		return invalidBody("eaten_at", "Expected ISO datetime with offset")
	case errors.As(err, &maxErr):
		return invalidBody("_", "Body is too large")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return invalidBody(field, "Unrecognized key")
	default:
		// time.Time and other custom unmarshalers report parse errors here
		return invalidBody("_", err.Error())
	}
}

func invalidBody(field, message string) error {
	if field == "" {
		field = "_"
	}
	return apperror.Validation("Invalid payload", map[string]string{field: message})
}
