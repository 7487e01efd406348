// Package toolargs validates the raw JSON arguments of the two tool calls
// the runtime exposes to the LLM (spawn_agent, return_progress) against a
// compiled JSON Schema before decoding them into Go structs.
package toolargs

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"orchestrun/orcherr"
)

// SpawnAgentSchema is the JSON Schema for spawn_agent's arguments.
const SpawnAgentSchema = `{
	"type": "object",
	"required": ["task_id", "purpose", "prompt"],
	"properties": {
		"task_id": {"type": "string", "minLength": 1},
		"purpose": {"type": "string"},
		"prompt": {"type": "string"},
		"profile": {"type": "string"},
		"checklist": {"type": "array", "items": {"type": "string"}}
	}
}`

// ReturnProgressSchema is the JSON Schema for return_progress's arguments.
const ReturnProgressSchema = `{
	"type": "object",
	"required": ["progress"],
	"properties": {
		"task_id": {"type": "string"},
		"progress": {"type": "string"},
		"is_final": {"type": "boolean"}
	}
}`

// Validator compiles and applies a JSON Schema to raw tool-call arguments.
type Validator struct {
	schema *jsonschema.Schema
}

// Compile builds a Validator from an inline schema document.
func Compile(name, schemaJSON string) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	var doc any
	if err := json.Unmarshal([]byte(schemaJSON), &doc); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}
	if err := compiler.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", name, err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Validator{schema: schema}, nil
}

// Validate checks raw against the compiled schema, returning a
// BadArguments error on failure.
func (v *Validator) Validate(raw []byte) error {
	var inst any
	if err := json.Unmarshal(raw, &inst); err != nil {
		return orcherr.Wrap(orcherr.KindBadArguments, "invalid JSON", err)
	}
	if err := v.schema.Validate(inst); err != nil {
		return orcherr.Wrap(orcherr.KindBadArguments, "schema validation failed", err)
	}
	return nil
}
