package models

// ProfileInput holds the questionnaire answers. Seniority is free text server-side.
type ProfileInput struct {
	CurrentRole   string `json:"current_role"`
	Seniority     string `json:"seniority"`
	Industry      string `json:"industry"`
	Goals         string `json:"goals"`
	StrengthsSelf string `json:"strengths_self"`
	Constraints   string `json:"constraints"`
}

// ContactInfo is personal data. It only ever reaches the prompt's trailing contact block.
type ContactInfo struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// AnalysisRequest is one submission: the résumé file plus the questionnaire.
type AnalysisRequest struct {
	Filename string
	Data     []byte
	Profile  ProfileInput
	Contact  ContactInfo
}
