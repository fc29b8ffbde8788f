package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/apperror"
)

// DefaultMaxBodyBytes caps JSON request bodies.
const DefaultMaxBodyBytes = 1 << 20

// DecodeJSON reads the request body into dst. Malformed or empty bodies are
// reported as validation errors on the "body" field.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperror.Validation("body", "request body is required")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, DefaultMaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Validation("body", "request body is required")
		}
		return apperror.Validation("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

// ReadRawJSON returns the raw request body after checking it is well-formed JSON.
func ReadRawJSON(r *http.Request) (json.RawMessage, error) {
	if r.Body == nil {
		return nil, apperror.Validation("body", "request body is required")
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, DefaultMaxBodyBytes))
	if err != nil {
		return nil, apperror.Validation("body", "unable to read request body")
	}
	if len(raw) == 0 {
		return nil, apperror.Validation("body", "request body is required")
	}
	if !json.Valid(raw) {
		return nil, apperror.Validation("body", "invalid JSON")
	}
	return json.RawMessage(raw), nil
}

// PathUUID binds a required UUID path parameter using the OpenAPI simple style.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return uuid.Nil, apperror.Validation(name, fmt.Sprintf("invalid format for parameter %s", name))
	}
	return id, nil
}

// PathString binds a required string path parameter.
func PathString(r *http.Request, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", apperror.Validation(name, fmt.Sprintf("invalid format for parameter %s", name))
	}
	return value, nil
}
