package models

// AnalysisResult is the structured recommendation returned by the model.
// The same type is used by the API, the PDF export, the mailer and the sealer.
type AnalysisResult struct {
	ProfileType          string               `json:"profile_type"`
	Compatibility        Compatibility        `json:"compatibility"`
	Strengths            []string             `json:"strengths"`
	Limits               []string             `json:"limits"`
	RecommendedRoles     []RecommendedRole    `json:"recommended_roles"`
	RecommendedCompanies []RecommendedCompany `json:"recommended_companies"`
	ActionPlan           ActionPlan           `json:"action_plan"`
	DAPTrainingCTA       *TrainingCTA         `json:"dap_training_cta,omitempty"`
}

type Compatibility struct {
	ScorePercent float64 `json:"score_percent"`
	Rationale    string  `json:"rationale"`
}

type RecommendedRole struct {
	Title        string  `json:"title"`
	ScorePercent float64 `json:"score_percent"`
	Description  string  `json:"description"`
	ImageURL     string  `json:"image_url,omitempty"`
}

type RecommendedCompany struct {
	Name         string  `json:"name"`
	ScorePercent float64 `json:"score_percent"`
	Explanation  string  `json:"explanation"`
	LogoURL      string  `json:"logo_url,omitempty"`
}

type ActionPlan struct {
	Summary string   `json:"summary"`
	Steps   []string `json:"steps"`
}

type TrainingCTA struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}
