package services

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/chacha20poly1305"

	"alfredoptarigan/declic-pro/internal/models"
)

var sealAdditionalData = []byte("declic-result-v1")

// ResultSealer turns a result into an opaque expiring token the browser can keep
// instead of the clear-text result.
type ResultSealer interface {
	Seal(result *models.AnalysisResult) (string, time.Time, error)
	Open(token string) (*models.AnalysisResult, error)
}

type sealedPayload struct {
	Result    *models.AnalysisResult `json:"result"`
	ExpiresAt time.Time              `json:"expires_at"`
}

type resultSealer struct {
	aead cipher.AEAD
	ttl  time.Duration
	now  func() time.Time
}

// NewResultSealer takes a base64 32-byte key. An empty key generates a random one,
// so tokens do not survive a restart.
func NewResultSealer(encodedKey string, ttl time.Duration) (ResultSealer, error) {
	var key []byte
	if encodedKey == "" {
		key = make([]byte, chacha20poly1305.KeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate sealing key: %w", err)
		}
	} else {
		decoded, err := base64.StdEncoding.DecodeString(encodedKey)
		if err != nil {
			return nil, &ConfigurationError{Setting: "RESULT_SEALING_KEY", Message: "RESULT_SEALING_KEY doit être encodée en base64"}
		}
		key = decoded
	}

	if len(key) != chacha20poly1305.KeySize {
		return nil, &ConfigurationError{
			Setting: "RESULT_SEALING_KEY",
			Message: fmt.Sprintf("RESULT_SEALING_KEY doit faire %d octets", chacha20poly1305.KeySize),
		}
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}

	if ttl <= 0 {
		ttl = 2 * time.Hour
	}

	return &resultSealer{aead: aead, ttl: ttl, now: time.Now}, nil
}

func (s *resultSealer) Seal(result *models.AnalysisResult) (string, time.Time, error) {
	if result == nil {
		return "", time.Time{}, &InputValidationError{Field: "result", Message: MsgMissingResult}
	}

	expiresAt := s.now().Add(s.ttl).UTC().Truncate(time.Second)
	plaintext, err := json.Marshal(sealedPayload{Result: result, ExpiresAt: expiresAt})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to encode result: %w", err)
	}

	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, plaintext, sealAdditionalData)
	return base64.RawURLEncoding.EncodeToString(sealed), expiresAt, nil
}

func (s *resultSealer) Open(token string) (*models.AnalysisResult, error) {
	invalid := &InputValidationError{Field: "sealed_result", Message: MsgSealedResult}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) < s.aead.NonceSize()+s.aead.Overhead() {
		return nil, invalid
	}

	nonce, ciphertext := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, sealAdditionalData)
	if err != nil {
		return nil, invalid
	}

	var payload sealedPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil || payload.Result == nil {
		return nil, invalid
	}

	if !s.now().Before(payload.ExpiresAt) {
		return nil, invalid
	}

	return payload.Result, nil
}
