package service

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/apperror"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	schemaSocialLinks   = "social_links"
	schemaExperiences   = "experiences"
	schemaCustomSection = "custom_section"
)

// payloadValidator checks section payloads against the embedded JSON Schemas,
// compiling each schema once.
type payloadValidator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

func newPayloadValidator() *payloadValidator {
	return &payloadValidator{cache: make(map[string]*jsonschema.Schema)}
}

// Validate reports schema violations as a ValidationError on field.
func (v *payloadValidator) Validate(name, field string, payload json.RawMessage) error {
	if len(bytes.TrimSpace(payload)) == 0 {
		return apperror.Validation(field, "is required")
	}

	compiled, err := v.getOrCompile(name)
	if err != nil {
		return err
	}

	var document any
	if err := json.Unmarshal(payload, &document); err != nil {
		return apperror.Validation(field, "invalid JSON")
	}

	if err := compiled.Validate(document); err != nil {
		var vErr *jsonschema.ValidationError
		if !errors.As(err, &vErr) {
			return fmt.Errorf("validate %s: %w", name, err)
		}
		fields := apperror.FieldErrors{}
		collectViolations(vErr, field, fields)
		return apperror.FromFields(fields)
	}
	return nil
}

func (v *payloadValidator) getOrCompile(name string) (*jsonschema.Schema, error) {
	v.mu.RLock()
	compiled, ok := v.cache[name]
	v.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if compiled, ok = v.cache[name]; ok {
		return compiled, nil
	}

	raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}

	url := "memory://profiles/" + name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("register schema %s: %w", name, err)
	}
	compiled, err = compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}

	v.cache[name] = compiled
	return compiled, nil
}

// collectViolations flattens the leaf causes; the instance location is
// appended to field so list items are reported as e.g. "experiences/0".
func collectViolations(vErr *jsonschema.ValidationError, field string, fields apperror.FieldErrors) {
	if len(vErr.Causes) == 0 {
		fields.Add(field+vErr.InstanceLocation, vErr.Message)
		return
	}
	for _, cause := range vErr.Causes {
		collectViolations(cause, field, fields)
	}
}
