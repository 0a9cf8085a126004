package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"alfredoptarigan/declic-pro/internal/models"
)

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		ProfileType:   "Acheteur opérationnel en transition",
		Compatibility: models.Compatibility{ScorePercent: 78, Rationale: "Bonne base achats, peu de pilotage catégorie."},
		Strengths:     []string{"Négociation fournisseurs", "Rigueur contractuelle", "Analyse des coûts"},
		Limits:        []string{"Anglais professionnel", "Outils e-procurement"},
		RecommendedRoles: []models.RecommendedRole{
			{Title: "Acheteur projet", ScorePercent: 82, Description: "Pilotage des achats projets."},
			{Title: "Category manager junior", ScorePercent: 74, Description: "Stratégie d'une famille d'achats.", ImageURL: "https://img.example.com/cm.png"},
			{Title: "Approvisionneur senior", ScorePercent: 70, Description: "Gestion des flux."},
		},
		RecommendedCompanies: []models.RecommendedCompany{
			{Name: "Airbus", ScorePercent: 80, Explanation: "Industrie cible."},
			{Name: "Safran", ScorePercent: 78, Explanation: "Besoin en acheteurs projet."},
			{Name: "Thales", ScorePercent: 72, Explanation: "Programmes longs."},
			{Name: "Dassault", ScorePercent: 68, Explanation: "Achats techniques.", LogoURL: "https://logo.example.com/d.svg"},
			{Name: "Renault", ScorePercent: 60, Explanation: "Volumes importants."},
		},
		ActionPlan: models.ActionPlan{
			Summary: "Consolider la négociation et viser un poste d'acheteur projet sous 12 mois.",
			Steps: []string{
				"Suivre une formation en category management",
				"Certifier son anglais",
				"Piloter un appel d'offres complet",
				"Construire un réseau achats",
				"Mettre à jour son CV",
			},
		},
		DAPTrainingCTA: &models.TrainingCTA{Label: "Voir la formation", URL: "https://exemple.com/formation"},
	}
}

func resultJSON(t *testing.T, mutate func(map[string]any)) string {
	t.Helper()

	raw, err := json.Marshal(sampleResult())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	if mutate != nil {
		mutate(doc)
	}

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(out)
}

func longResult(items int) *models.AnalysisResult {
	r := sampleResult()
	r.Strengths = nil
	r.Limits = nil
	r.ActionPlan.Steps = nil
	paragraph := strings.Repeat("Texte long pour vérifier la mise en page et les sauts de page. ", 6)
	for i := 0; i < items; i++ {
		r.Strengths = append(r.Strengths, fmt.Sprintf("Force %d : %s", i+1, paragraph))
		r.Limits = append(r.Limits, fmt.Sprintf("Limite %d : %s", i+1, paragraph))
		r.ActionPlan.Steps = append(r.ActionPlan.Steps, fmt.Sprintf("Étape %d : %s", i+1, paragraph))
	}
	r.ActionPlan.Summary = strings.Repeat(paragraph, 3)
	return r
}
