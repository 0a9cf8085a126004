package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Every error below renders a message that can be shown to the user as is.
// Causes are kept for logs and exposed through Unwrap.

const (
	MsgMissingCV          = "CV manquant"
	MsgMissingRecipient   = "Destinataire manquant"
	MsgInvalidRecipient   = "Adresse email invalide"
	MsgMissingResult      = "Résultat manquant, relance l’analyse."
	MsgSealedResult       = "Résultat expiré ou invalide, relance l’analyse."
	MsgUnsupportedFormat  = "Format non supporté. Utilise PDF ou DOCX."
	MsgEmptyResponse      = "Réponse vide du modèle"
	MsgMalformedResponse  = "Réponse du modèle invalide"
	MsgMailNotConfigured  = "Email non configuré (SMTP_* manquants). Tu peux ignorer cette option pour l’instant."
	MsgMissingGeminiKey   = "GEMINI_API_KEY manquante"
	MsgProviderFailure    = "Le service d’analyse est indisponible, réessaie dans quelques instants."
	MsgEmailTransport     = "Envoi de l’email impossible"
	MsgExtractionFallback = "Lecture du CV impossible"
)

type ConfigurationError struct {
	Setting string
	// Optional marks a feature that can be skipped, such as email.
	Optional bool
	Message  string
}

func (e *ConfigurationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Configuration manquante : %s", e.Setting)
}

type InputValidationError struct {
	Field   string
	Message string
}

func (e *InputValidationError) Error() string {
	return e.Message
}

type UnsupportedFormatError struct {
	Filename string
}

func (e *UnsupportedFormatError) Error() string {
	return MsgUnsupportedFormat
}

type ExtractionError struct {
	Format string
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Format == "" {
		return MsgExtractionFallback
	}
	return fmt.Sprintf("%s (%s)", MsgExtractionFallback, strings.ToUpper(e.Format))
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

type ProviderError struct {
	Retryable bool
	Cause     error
}

func (e *ProviderError) Error() string {
	return MsgProviderFailure
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

type GenerationEmptyResponseError struct{}

func (e *GenerationEmptyResponseError) Error() string {
	return MsgEmptyResponse
}

type GenerationMalformedResponseError struct {
	Violations []string
	Cause      error
}

func (e *GenerationMalformedResponseError) Error() string {
	if len(e.Violations) == 0 {
		return MsgMalformedResponse
	}
	return fmt.Sprintf("%s : %s", MsgMalformedResponse, strings.Join(e.Violations, "; "))
}

func (e *GenerationMalformedResponseError) Unwrap() error {
	return e.Cause
}

type EmailTransportError struct {
	Cause error
}

func (e *EmailTransportError) Error() string {
	return MsgEmailTransport
}

func (e *EmailTransportError) Unwrap() error {
	return e.Cause
}

// FailureKind names an error for metrics and the audit table.
func FailureKind(err error) string {
	var (
		cfgErr       *ConfigurationError
		inputErr     *InputValidationError
		formatErr    *UnsupportedFormatError
		extractErr   *ExtractionError
		providerErr  *ProviderError
		emptyErr     *GenerationEmptyResponseError
		malformedErr *GenerationMalformedResponseError
		emailErr     *EmailTransportError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.As(err, &inputErr):
		return "input_validation"
	case errors.As(err, &formatErr):
		return "unsupported_format"
	case errors.As(err, &extractErr):
		return "extraction"
	case errors.As(err, &providerErr):
		return "provider"
	case errors.As(err, &emptyErr):
		return "empty_response"
	case errors.As(err, &malformedErr):
		return "malformed_response"
	case errors.As(err, &emailErr):
		return "email_transport"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal"
	}
}
