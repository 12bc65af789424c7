// Package validation validates inbound API payloads against JSON schemas.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const queryRequestSchema = `{
	"type": "object",
	"properties": {
		"text": {
			"type": "string",
			"minLength": 3,
			"maxLength": 500,
			"description": "Natural language question"
		},
		"tenantId": {
			"type": "string",
			"minLength": 1,
			"description": "Tenant identifier the query is scoped to"
		},
		"context": {
			"type": "string",
			"enum": ["leads", "bookings", "revenue", "contacts", "analytics"],
			"description": "Optional domain hint from the active dashboard view"
		}
	},
	"required": ["text", "tenantId"],
	"additionalProperties": false
}`

var queryRequestLoader = gojsonschema.NewStringLoader(queryRequestSchema)

// ValidationResult collects schema violations for a payload.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidateQueryRequest checks a raw request body against the query schema.
func ValidateQueryRequest(body []byte) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(queryRequestLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	vr := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		vr.Errors = append(vr.Errors, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return vr, nil
}
