package services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func newValidator(t *testing.T) *SchemaValidator {
	t.Helper()
	v, err := NewSchemaValidator()
	require.NoError(t, err)
	return v
}

func TestAnalysisSchemaIsStrict(t *testing.T) {
	schema := AnalysisSchema()

	assert.Equal(t, false, schema["additionalProperties"])
	assert.Contains(t, schema["required"], "dap_training_cta")

	props := schema["properties"].(map[string]any)
	for _, key := range []string{"compatibility", "action_plan", "dap_training_cta"} {
		obj := props[key].(map[string]any)
		assert.Equal(t, false, obj["additionalProperties"], key)
		assert.NotEmpty(t, obj["required"], key)
	}

	roles := props["recommended_roles"].(map[string]any)
	assert.Equal(t, 3, roles["minItems"])
	assert.Equal(t, 3, roles["maxItems"])

	companies := props["recommended_companies"].(map[string]any)
	assert.Equal(t, 5, companies["minItems"])
	assert.Equal(t, 5, companies["maxItems"])

	// The provider schema must also be a valid JSON Schema document.
	_, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	require.NoError(t, err)
}

func TestSchemaValidatorAcceptsValidResult(t *testing.T) {
	got, err := newValidator(t).Parse(resultJSON(t, nil))
	require.NoError(t, err)

	assert.Equal(t, sampleResult(), got)
	assert.Len(t, got.RecommendedRoles, 3)
	assert.Len(t, got.RecommendedCompanies, 5)
	assert.GreaterOrEqual(t, len(got.ActionPlan.Steps), 5)
	assert.LessOrEqual(t, len(got.ActionPlan.Steps), 10)
}

func TestSchemaValidatorRepairsFencedJSON(t *testing.T) {
	fenced := "Voici le résultat :\n```json\n" + resultJSON(t, nil) + "\n```\nBonne chance !"

	got, err := newValidator(t).Parse(fenced)
	require.NoError(t, err)
	assert.Equal(t, sampleResult().ProfileType, got.ProfileType)
}

func TestSchemaValidatorAllowsMissingCTA(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"absent", func(doc map[string]any) { delete(doc, "dap_training_cta") }},
		{"null", func(doc map[string]any) { doc["dap_training_cta"] = nil }},
		{"empty url", func(doc map[string]any) {
			doc["dap_training_cta"] = map[string]any{"label": "x", "url": ""}
		}},
		{"no url", func(doc map[string]any) {
			doc["dap_training_cta"] = map[string]any{"label": "x"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newValidator(t).Parse(resultJSON(t, tt.mutate))
			assert.NoError(t, err)
		})
	}
}

func TestSchemaValidatorRejectsViolations(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(map[string]any)
		wantField string
	}{
		{"two roles", func(doc map[string]any) {
			doc["recommended_roles"] = doc["recommended_roles"].([]any)[:2]
		}, "recommended_roles"},
		{"six companies", func(doc map[string]any) {
			c := doc["recommended_companies"].([]any)
			doc["recommended_companies"] = append(c, c[0])
		}, "recommended_companies"},
		{"four steps", func(doc map[string]any) {
			plan := doc["action_plan"].(map[string]any)
			plan["steps"] = plan["steps"].([]any)[:4]
		}, "action_plan.steps"},
		{"eleven steps", func(doc map[string]any) {
			plan := doc["action_plan"].(map[string]any)
			steps := []any{}
			for i := 0; i < 11; i++ {
				steps = append(steps, "étape")
			}
			plan["steps"] = steps
		}, "action_plan.steps"},
		{"extra property", func(doc map[string]any) {
			doc["email"] = "jean@example.com"
		}, "(root)"},
		{"missing compatibility", func(doc map[string]any) {
			delete(doc, "compatibility")
		}, "(root)"},
		{"score as string", func(doc map[string]any) {
			doc["compatibility"].(map[string]any)["score_percent"] = "80"
		}, "compatibility.score_percent"},
		{"relative image url", func(doc map[string]any) {
			doc["recommended_roles"].([]any)[0].(map[string]any)["image_url"] = "not a uri"
		}, "recommended_roles.0.image_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newValidator(t).Parse(resultJSON(t, tt.mutate))

			var malformed *GenerationMalformedResponseError
			require.ErrorAs(t, err, &malformed)
			require.NotEmpty(t, malformed.Violations)
			assert.True(t, strings.HasPrefix(malformed.Violations[0], tt.wantField), "violations: %v", malformed.Violations)
		})
	}
}

func TestSchemaValidatorRejectsNonJSON(t *testing.T) {
	for _, text := range []string{"Désolé, je ne peux pas.", "{pas du json}", `{"profile_type": "x"`} {
		_, err := newValidator(t).Parse(text)

		var malformed *GenerationMalformedResponseError
		require.ErrorAs(t, err, &malformed, text)
	}
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`},
		{`texte {"a":1} fin`, `{"a":1}`},
		{"  rien  ", "rien"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanJSONBlock(tt.in))
	}
}

func TestAnalysisSchemaIsFreshCopy(t *testing.T) {
	a := AnalysisSchema()
	a["required"] = []string{}

	b := AnalysisSchema()
	raw, err := json.Marshal(b["required"])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "profile_type")
}
