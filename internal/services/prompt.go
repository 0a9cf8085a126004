package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"alfredoptarigan/declic-pro/internal/models"
)

const systemPrompt = `Tu es un expert RH + achats (procurement) spécialisé en profils acheteurs.
Analyse un CV + réponses profil, et produis UNIQUEMENT un JSON conforme au schéma fourni (strict).
Aucun texte hors JSON, pas de markdown.
Les scores sont cohérents avec le CV.
Postes recommandés : 3 rôles achats plausibles + description concrète.
Entreprises : 5 compatibles + explication claire.
Plan d’action : progression carrière + compétences achats.`

type Prompt struct {
	System            string
	User              string
	DocumentTruncated bool
}

// Len is the prompt size in characters.
func (p Prompt) Len() int {
	return utf8.RuneCountInString(p.System) + utf8.RuneCountInString(p.User)
}

type PromptBuilder struct {
	maxDocumentChars int
}

// NewPromptBuilder bounds the résumé text to maxDocumentChars runes. 0 disables the bound.
func NewPromptBuilder(maxDocumentChars int) *PromptBuilder {
	if maxDocumentChars < 0 {
		maxDocumentChars = 0
	}
	return &PromptBuilder{maxDocumentChars: maxDocumentChars}
}

// Build assembles the system instruction and the user message.
// Contact data only appears in the trailing "ne pas répéter" block.
func (pb *PromptBuilder) Build(profile models.ProfileInput, documentText string, contact models.ContactInfo) Prompt {
	document, truncated := pb.truncateDocument(documentText)

	var b strings.Builder
	b.WriteString("=== DONNÉES PROFIL ===\n")
	fmt.Fprintf(&b, "Poste actuel: %s\n", profile.CurrentRole)
	fmt.Fprintf(&b, "Séniorité: %s\n", profile.Seniority)
	fmt.Fprintf(&b, "Industrie: %s\n", profile.Industry)
	fmt.Fprintf(&b, "Objectifs: %s\n", profile.Goals)
	fmt.Fprintf(&b, "Forces (auto-déclarées): %s\n", profile.StrengthsSelf)
	fmt.Fprintf(&b, "Contraintes: %s\n", profile.Constraints)
	b.WriteString("\n=== CV (texte extrait) ===\n")
	b.WriteString(document)
	b.WriteString("\n\n=== CONTACT (ne pas répéter) ===\n")
	fmt.Fprintf(&b, "Email: %s\n", contact.Email)
	fmt.Fprintf(&b, "Téléphone: %s", contact.Phone)

	return Prompt{
		System:            systemPrompt,
		User:              strings.TrimSpace(b.String()),
		DocumentTruncated: truncated,
	}
}

func (pb *PromptBuilder) truncateDocument(text string) (string, bool) {
	if pb.maxDocumentChars == 0 {
		return text, false
	}

	total := utf8.RuneCountInString(text)
	if total <= pb.maxDocumentChars {
		return text, false
	}

	runes := []rune(text)
	omitted := total - pb.maxDocumentChars
	return fmt.Sprintf("%s\n[... CV tronqué : %d caractères omis ...]", string(runes[:pb.maxDocumentChars]), omitted), true
}
