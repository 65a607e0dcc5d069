package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lavexpress/lavexpress-api/config"
)

// WebhookResult holds the parsed response of the booking workflow
// engine. ID is empty when the upstream did not assign one.
type WebhookResult struct {
	ID  string
	Raw map[string]interface{}
}

// UpstreamError wraps a non-2xx response from the workflow engine
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("webhook returned status %d: %s", e.StatusCode, e.Body)
}

// WebhookService forwards reservation payloads to the external
// workflow-automation engine. All orchestration (notifications,
// technician dispatch) happens downstream; this side only validates
// and relays.
type WebhookService struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

var webhookServiceInstance *WebhookService

// NewWebhookService creates a webhook service from configuration
func NewWebhookService(cfg *config.Config) *WebhookService {
	return &WebhookService{
		url:    cfg.N8NWebhookURL,
		apiKey: cfg.N8NAPIKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetWebhookService returns the webhook service instance, creating it
// lazily from the loaded configuration.
func GetWebhookService() *WebhookService {
	if webhookServiceInstance == nil {
		webhookServiceInstance = NewWebhookService(config.GetConfig())
	}
	return webhookServiceInstance
}

// SetWebhookService sets the webhook service instance (primarily for testing)
func SetWebhookService(s *WebhookService) {
	webhookServiceInstance = s
}

// Forward POSTs the payload as JSON with bearer authentication and
// returns the parsed upstream response. Non-2xx responses yield an
// *UpstreamError.
func (s *WebhookService) Forward(payload map[string]interface{}) (*WebhookResult, error) {
	if s.url == "" {
		return nil, fmt.Errorf("webhook URL is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequest("POST", s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call webhook: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	result := &WebhookResult{Raw: map[string]interface{}{}}
	if len(respBody) > 0 {
		// Upstream responses are free-form; a missing or malformed body
		// is not an error, the caller falls back to a local id.
		if err := json.Unmarshal(respBody, &result.Raw); err == nil {
			if id, ok := result.Raw["id"].(string); ok {
				result.ID = id
			}
		}
	}

	return result, nil
}
