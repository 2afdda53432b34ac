package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pdf-translator/internal/logger"
)

const (
	// libreMaxItems is the request ceiling on texts per call.
	libreMaxItems = 50
	// libreMaxChars is the request ceiling on total characters per call.
	libreMaxChars = 45000

	libreTimeout = 120 * time.Second
)

// LibreProvider translates through a self-hosted LibreTranslate instance.
type LibreProvider struct {
	baseURL string
	client  *http.Client
}

// NewLibreProvider creates a provider for the LibreTranslate endpoint at
// baseURL. A nil client uses a default with a generous timeout.
func NewLibreProvider(baseURL string, client *http.Client) *LibreProvider {
	if client == nil {
		client = &http.Client{Timeout: libreTimeout}
	}
	return &LibreProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// Name identifies the provider.
func (p *LibreProvider) Name() string { return "libre" }

// Limits returns the LibreTranslate request ceilings.
func (p *LibreProvider) Limits() (maxItems, maxChars int) {
	return libreMaxItems, libreMaxChars
}

type libreRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

type libreResponse struct {
	TranslatedText []string `json:"translatedText"`
	Error          string   `json:"error,omitempty"`
}

// Translate sends texts in one request and returns the length-matched result.
func (p *LibreProvider) Translate(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var out []string
	err := withRetry(ctx, DefaultMaxRetries, func() error {
		translated, err := p.translateOnce(ctx, texts, targetLang)
		if err != nil {
			return err
		}
		out = translated
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Pad short responses so callers can align by index; the batch adapter
	// substitutes originals for the empty slots.
	for len(out) < len(texts) {
		out = append(out, "")
	}
	return out[:len(texts)], nil
}

func (p *LibreProvider) translateOnce(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	reqBody := libreRequest{
		Q:      texts,
		Source: "auto",
		Target: targetLang,
		Format: "text",
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	logger.Debug("calling LibreTranslate",
		logger.String("url", p.baseURL),
		logger.Int("items", len(texts)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/translate", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		var errResp libreResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("LibreTranslate request failed: status %d: %s", resp.StatusCode, msg),
		}
	}

	var libreResp libreResponse
	if err := json.Unmarshal(body, &libreResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return libreResp.TranslatedText, nil
}
