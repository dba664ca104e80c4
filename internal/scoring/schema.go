package scoring

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// fitResponseSchema checks the shape of a classifier fit response. Fields
// are individually optional (the engines apply defensive defaults) but must
// be correctly typed when present.
const fitResponseSchema = `{
	"type": "object",
	"properties": {
		"overall_score": {"type": "integer"},
		"recommendation": {"type": "string"},
		"skills_matched": {"type": "array", "items": {"type": "string"}},
		"skills_missing": {"type": "array", "items": {"type": "string"}},
		"strengths": {"type": "array", "items": {"type": "string"}},
		"concerns": {"type": "array", "items": {"type": "string"}},
		"reasoning": {"type": "string"}
	}
}`

// enhancedFitResponseSchema additionally requires the component sub-scores
// the weighted blend is derived from.
const enhancedFitResponseSchema = `{
	"type": "object",
	"properties": {
		"overall_score": {"type": "integer"},
		"recommendation": {"type": "string"},
		"skills_matched": {"type": "array", "items": {"type": "string"}},
		"skills_missing": {"type": "array", "items": {"type": "string"}},
		"strengths": {"type": "array", "items": {"type": "string"}},
		"concerns": {"type": "array", "items": {"type": "string"}},
		"reasoning": {"type": "string"},
		"component_scores": {
			"type": "object",
			"properties": {
				"relevance_score": {"type": "integer"},
				"qualification_score": {"type": "integer"}
			},
			"required": ["relevance_score", "qualification_score"]
		}
	},
	"required": ["component_scores"]
}`

// validateResponse checks a JSON document against a schema, collapsing all
// validation failures into one error.
func validateResponse(schema, document string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(document),
	)
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}

	if !result.Valid() {
		first := result.Errors()[0]
		return fmt.Errorf("response failed schema validation: %s: %s (%d problems)",
			first.Field(), first.Description(), len(result.Errors()))
	}
	return nil
}
