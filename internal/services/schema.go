package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"alfredoptarigan/declic-pro/internal/models"
)

const AnalysisSchemaName = "dap_declic_pro_result"

func stringType() map[string]any {
	return map[string]any{"type": "string"}
}

func numberType() map[string]any {
	return map[string]any{"type": "number"}
}

func uriType() map[string]any {
	return map[string]any{"type": "string", "format": "uri"}
}

func stringArray() map[string]any {
	return map[string]any{"type": "array", "items": stringType()}
}

func strictObject(properties map[string]any, required ...string) map[string]any {
	object := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           properties,
	}
	if len(required) > 0 {
		object["required"] = required
	}
	return object
}

// buildAnalysisSchema returns a fresh schema document. strictCTA selects the
// provider contract, where dap_training_cta and its url are mandatory.
func buildAnalysisSchema(strictCTA bool) map[string]any {
	cta := strictObject(map[string]any{
		"label": stringType(),
		"url":   uriType(),
	}, "label", "url")
	required := []string{
		"profile_type",
		"compatibility",
		"strengths",
		"limits",
		"recommended_roles",
		"recommended_companies",
		"action_plan",
	}
	if strictCTA {
		required = append(required, "dap_training_cta")
	} else {
		cta = strictObject(map[string]any{
			"label": stringType(),
			"url":   stringType(),
		})
		cta["type"] = []any{"object", "null"}
	}

	roles := stringArray()
	roles["minItems"] = 3
	roles["maxItems"] = 3
	roles["items"] = strictObject(map[string]any{
		"title":         stringType(),
		"score_percent": numberType(),
		"description":   stringType(),
		"image_url":     uriType(),
	}, "title", "score_percent", "description")

	companies := stringArray()
	companies["minItems"] = 5
	companies["maxItems"] = 5
	companies["items"] = strictObject(map[string]any{
		"name":          stringType(),
		"score_percent": numberType(),
		"explanation":   stringType(),
		"logo_url":      uriType(),
	}, "name", "score_percent", "explanation")

	steps := stringArray()
	steps["minItems"] = 5
	steps["maxItems"] = 10

	return strictObject(map[string]any{
		"profile_type": stringType(),
		"compatibility": strictObject(map[string]any{
			"score_percent": numberType(),
			"rationale":     stringType(),
		}, "score_percent", "rationale"),
		"strengths":             stringArray(),
		"limits":                stringArray(),
		"recommended_roles":     roles,
		"recommended_companies": companies,
		"action_plan": strictObject(map[string]any{
			"summary": stringType(),
			"steps":   steps,
		}, "summary", "steps"),
		"dap_training_cta": cta,
	}, required...)
}

// AnalysisSchema is the strict output contract sent to the provider.
func AnalysisSchema() map[string]any {
	return buildAnalysisSchema(true)
}

type SchemaLoadError struct {
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema: %s: %v", e.Message, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// SchemaValidator checks untrusted model output before it is decoded.
type SchemaValidator struct {
	schema *gojsonschema.Schema
}

// NewSchemaValidator compiles the local schema. It only differs from the
// provider one by leaving dap_training_cta to the post-processor.
func NewSchemaValidator() (*SchemaValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(buildAnalysisSchema(false)))
	if err != nil {
		return nil, &SchemaLoadError{Message: AnalysisSchemaName, Cause: err}
	}
	return &SchemaValidator{schema: schema}, nil
}

// Parse repairs, validates and decodes a raw model response.
func (v *SchemaValidator) Parse(text string) (*models.AnalysisResult, error) {
	payload := CleanJSONBlock(text)

	if !json.Valid([]byte(payload)) {
		return nil, &GenerationMalformedResponseError{
			Violations: []string{"(root): la réponse n'est pas un JSON valide"},
		}
	}

	result, err := v.schema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		return nil, &GenerationMalformedResponseError{Cause: err}
	}

	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			violations = append(violations, fmt.Sprintf("%s: %s", field, desc.Description()))
		}
		return nil, &GenerationMalformedResponseError{Violations: violations}
	}

	var analysis models.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, &GenerationMalformedResponseError{Cause: err}
	}

	return &analysis, nil
}

// CleanJSONBlock strips markdown fences and keeps the outermost JSON object.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```JSON", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return strings.TrimSpace(text)
}
