// internal/intent/schema.go
package intent

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// aiResponseSchema is the contract for model output. Anything the model
// returns that does not satisfy it is discarded and the rule path takes over.
const aiResponseSchema = `{
	"type": "object",
	"required": ["intent"],
	"properties": {
		"intent": {
			"type": "string",
			"enum": [
				"CREATE_TODO", "SHOW_TODOS", "COMPLETE_TODO",
				"CREATE_NOTE", "SHOW_NOTES", "DELETE_NOTE",
				"ASSIGN_TASK", "SHOW_ASSIGNED_TO",
				"MARK_BLOCKED", "SHOW_BLOCKED", "UNBLOCK_TASK",
				"OTHER"
			]
		},
		"entity":     {"type": ["string", "null"]},
		"assignedTo": {"type": ["string", "null"]},
		"reason":     {"type": ["string", "null"]},
		"confidence": {"type": ["number", "null"], "minimum": 0, "maximum": 1}
	}
}`

var compiledAISchema = gojsonschema.NewStringLoader(aiResponseSchema)

// validateAIResponse checks the sanitized model output against the response
// schema. It returns an error describing the first violations when the
// payload is not valid JSON or breaks the contract.
func validateAIResponse(payload string) error {
	result, err := gojsonschema.Validate(compiledAISchema, gojsonschema.NewStringLoader(payload))
	if err != nil {
		return fmt.Errorf("ai response is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var violations []string
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
		if len(violations) == 3 {
			break
		}
	}
	return fmt.Errorf("ai response failed validation: %s", strings.Join(violations, "; "))
}
