package workflow

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultPayloadSchema constrains submission snapshots to flat JSON objects.
// Entity kinds can register stricter schemas; the default only rejects
// payloads that could not round-trip through the jsonb column.
const DefaultPayloadSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "SubmissionPayload",
  "type": "object"
}`

// PayloadValidator checks the editable-field snapshot captured on submit
// against a per-kind JSON schema.
type PayloadValidator struct {
	mu      sync.RWMutex
	schemas map[string]*jsonschema.Schema
}

// NewPayloadValidator constructs an empty validator. Kinds without a
// registered schema pass validation untouched.
func NewPayloadValidator() *PayloadValidator {
	return &PayloadValidator{schemas: make(map[string]*jsonschema.Schema)}
}

// Register compiles and installs the schema for an entity kind.
func (v *PayloadValidator) Register(kind, schema string) error {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return ErrUnknownEntityKind
	}
	compiled, err := jsonschema.CompileString(fmt.Sprintf("marketplace://schemas/%s.json", kind), schema)
	if err != nil {
		return fmt.Errorf("workflow: compile payload schema for %s: %w", kind, err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.schemas[kind] = compiled
	return nil
}

// Validate checks the snapshot against the kind's schema when one exists.
func (v *PayloadValidator) Validate(kind string, payload map[string]any) error {
	v.mu.RLock()
	schema, ok := v.schemas[strings.ToLower(strings.TrimSpace(kind))]
	v.mu.RUnlock()
	if !ok || schema == nil {
		return nil
	}

	// Round-trip through JSON so typed values (uuid.UUID, time.Time) take the
	// shape the schema will see once persisted.
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}
	if err := schema.Validate(decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}
	return nil
}
