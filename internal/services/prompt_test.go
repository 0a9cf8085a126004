package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/declic-pro/internal/models"
)

func sampleProfile() models.ProfileInput {
	return models.ProfileInput{
		CurrentRole:   "Acheteur junior",
		Seniority:     "2-5 ans",
		Industry:      "Aéronautique",
		Goals:         "Devenir category manager",
		StrengthsSelf: "Négociation",
		Constraints:   "Lyon uniquement",
	}
}

func sampleContact() models.ContactInfo {
	return models.ContactInfo{Email: "jean@example.com", Phone: "+33 6 12 34 56 78"}
}

func TestPromptBuildIsDeterministic(t *testing.T) {
	pb := NewPromptBuilder(0)

	first := pb.Build(sampleProfile(), "Texte du CV", sampleContact())
	second := pb.Build(sampleProfile(), "Texte du CV", sampleContact())

	assert.Equal(t, first, second)
	assert.Equal(t, systemPrompt, first.System)
	assert.False(t, first.DocumentTruncated)
}

func TestPromptBlocksOrder(t *testing.T) {
	p := NewPromptBuilder(0).Build(sampleProfile(), "Texte du CV", sampleContact())

	profileIdx := strings.Index(p.User, "=== DONNÉES PROFIL ===")
	cvIdx := strings.Index(p.User, "=== CV (texte extrait) ===")
	contactIdx := strings.Index(p.User, "=== CONTACT (ne pas répéter) ===")

	assert.Equal(t, 0, profileIdx)
	assert.Greater(t, cvIdx, profileIdx)
	assert.Greater(t, contactIdx, cvIdx)

	for _, line := range []string{
		"Poste actuel: Acheteur junior",
		"Séniorité: 2-5 ans",
		"Industrie: Aéronautique",
		"Objectifs: Devenir category manager",
		"Forces (auto-déclarées): Négociation",
		"Contraintes: Lyon uniquement",
	} {
		idx := strings.Index(p.User, line)
		assert.True(t, idx > profileIdx && idx < cvIdx, "%q must sit in the profile block", line)
	}

	// Contact data only ever appears after the contact header.
	for _, pii := range []string{"jean@example.com", "+33 6 12 34 56 78"} {
		assert.Equal(t, strings.LastIndex(p.User, pii), strings.Index(p.User, pii))
		assert.Greater(t, strings.Index(p.User, pii), contactIdx)
	}
	assert.True(t, strings.HasSuffix(p.User, "Téléphone: +33 6 12 34 56 78"))
}

func TestPromptDocumentBound(t *testing.T) {
	doc := strings.Repeat("é", 120)

	tests := []struct {
		name          string
		max           int
		wantTruncated bool
		wantMarker    string
	}{
		{"disabled", 0, false, ""},
		{"negative disables", -5, false, ""},
		{"fits", 120, false, ""},
		{"truncated", 100, true, "[... CV tronqué : 20 caractères omis ...]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPromptBuilder(tt.max).Build(sampleProfile(), doc, sampleContact())

			assert.Equal(t, tt.wantTruncated, p.DocumentTruncated)
			if tt.wantTruncated {
				assert.Contains(t, p.User, strings.Repeat("é", 100)+"\n"+tt.wantMarker)
				assert.NotContains(t, p.User, strings.Repeat("é", 101))
				assert.Contains(t, p.User, "=== CONTACT (ne pas répéter) ===")
			} else {
				assert.Contains(t, p.User, doc)
				assert.NotContains(t, p.User, "CV tronqué")
			}
		})
	}
}

func TestPromptLen(t *testing.T) {
	p := Prompt{System: "éé", User: "abc"}
	assert.Equal(t, 5, p.Len())
}
