package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/declic-pro/internal/models"
)

func TestApplyDefaults(t *testing.T) {
	defaultCTA := &models.TrainingCTA{Label: DefaultCTALabel, URL: DefaultCTAURL}

	tests := []struct {
		name string
		cta  *models.TrainingCTA
		want *models.TrainingCTA
	}{
		{"missing", nil, defaultCTA},
		{"empty url", &models.TrainingCTA{Label: "Autre", URL: ""}, defaultCTA},
		{"blank url", &models.TrainingCTA{Label: "Autre", URL: "   "}, defaultCTA},
		{"kept", &models.TrainingCTA{Label: "Autre", URL: "https://dap.example/x"}, &models.TrainingCTA{Label: "Autre", URL: "https://dap.example/x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleResult()
			in.DAPTrainingCTA = tt.cta

			out := NewPostProcessor("", "").ApplyDefaults(in)
			assert.Equal(t, tt.want, out.DAPTrainingCTA)

			// Everything else passes through.
			expected := sampleResult()
			expected.DAPTrainingCTA = out.DAPTrainingCTA
			assert.Equal(t, expected, out)
		})
	}
}

func TestApplyDefaultsIsIdempotent(t *testing.T) {
	p := NewPostProcessor("", "")
	in := sampleResult()
	in.DAPTrainingCTA = nil

	once := p.ApplyDefaults(in)
	snapshot := *once.DAPTrainingCTA
	twice := p.ApplyDefaults(once)

	assert.Equal(t, snapshot, *twice.DAPTrainingCTA)
}

func TestApplyDefaultsConfigurable(t *testing.T) {
	in := sampleResult()
	in.DAPTrainingCTA = nil

	out := NewPostProcessor("Mon plan", "https://dap.example/plan").ApplyDefaults(in)
	assert.Equal(t, &models.TrainingCTA{Label: "Mon plan", URL: "https://dap.example/plan"}, out.DAPTrainingCTA)
}

func TestApplyDefaultsNil(t *testing.T) {
	assert.Nil(t, NewPostProcessor("", "").ApplyDefaults(nil))
}
