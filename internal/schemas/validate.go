// Package schemas validates upstream API payloads against embedded JSON Schemas.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed payloads/*.schema.json
var payloadFS embed.FS

// Payload names an upstream response shape that has a schema.
type Payload string

const (
	// PayloadProfile is the GET /profile response
	PayloadProfile Payload = "profile"
	// PayloadJobs is the GET /jobs response
	PayloadJobs Payload = "jobs"
	// PayloadJobDetails is the GET /jobs/{id} response
	PayloadJobDetails Payload = "job_details"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Payload Payload
	Errors  []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s payload failed validation:\n", ve.Payload))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var (
	compiledMu sync.Mutex
	compiled   = map[Payload]*gojsonschema.Schema{}
)

// schemaFor compiles the embedded schema for p once and caches it.
func schemaFor(p Payload) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[p]; ok {
		return s, nil
	}

	path := "payloads/" + string(p) + ".schema.json"
	raw, err := payloadFS.ReadFile(path)
	if err != nil {
		return nil, &SchemaLoadError{Path: path, Message: "no embedded schema", Cause: err}
	}

	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &SchemaLoadError{Path: path, Message: "invalid schema", Cause: err}
	}
	compiled[p] = s
	return s, nil
}

// ValidatePayload validates a raw response body against the schema for p.
func ValidatePayload(p Payload, body []byte) error {
	schema, err := schemaFor(p)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		// The document itself could not be loaded (not JSON).
		return &ValidationError{
			Payload: p,
			Errors:  []FieldError{{Field: "(root)", Message: err.Error()}},
		}
	}
	return toValidationError(p, result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return toValidationError("", result)
}

func toValidationError(p Payload, result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Payload: p,
		Errors:  make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
