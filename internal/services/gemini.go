package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"google.golang.org/genai"
)

// GeminiService sends one schema-constrained generation request.
type GeminiService interface {
	// GenerateStructured returns the raw response text. Provider failures come back as *ProviderError.
	GenerateStructured(ctx context.Context, system, user string, schema any) (string, error)
	ModelName() string
}

type geminiService struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

func NewGeminiService(ctx context.Context, apiKey, modelName string, temperature float32) (GeminiService, error) {
	if apiKey == "" {
		return nil, &ConfigurationError{Setting: "GEMINI_API_KEY", Message: MsgMissingGeminiKey}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:      client,
		modelName:   modelName,
		temperature: temperature,
	}, nil
}

func (g *geminiService) ModelName() string {
	return g.modelName
}

func (g *geminiService) GenerateStructured(ctx context.Context, system, user string, schema any) (string, error) {
	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		SystemInstruction:  genai.NewContentFromText(system, genai.RoleUser),
		Temperature:        &temperature,
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: schema,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(user), config)
	if err != nil {
		return "", &ProviderError{Retryable: IsRetryableProviderError(err), Cause: err}
	}

	if resp == nil {
		return "", nil
	}

	return resp.Text(), nil
}

// IsRetryableProviderError reports transient failures: 408, 429, 5xx, timeouts and network errors.
func IsRetryableProviderError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return retryableStatus(apiErrPtr.Code)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout ||
		code == http.StatusTooManyRequests ||
		code >= http.StatusInternalServerError
}
