package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lavexpress/lavexpress-api/config"
)

func TestWebhookForward(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"rsv_7","status":"queued"}`))
	}))
	defer server.Close()

	service := NewWebhookService(&config.Config{N8NWebhookURL: server.URL, N8NAPIKey: "key-123"})
	result, err := service.Forward(map[string]interface{}{"vehicule": "Citadine"})

	assert.NoError(t, err)
	assert.Equal(t, "Bearer key-123", gotAuth)
	assert.Equal(t, "rsv_7", result.ID)
	assert.Equal(t, "queued", result.Raw["status"])
}

func TestWebhookForwardEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	service := NewWebhookService(&config.Config{N8NWebhookURL: server.URL})
	result, err := service.Forward(map[string]interface{}{})

	assert.NoError(t, err)
	assert.Empty(t, result.ID, "no upstream id leaves the caller to generate one")
}

func TestWebhookForwardNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
	}))
	defer server.Close()

	service := NewWebhookService(&config.Config{N8NWebhookURL: server.URL})
	_, err := service.Forward(map[string]interface{}{})

	assert.Error(t, err)
	upstream, ok := err.(*UpstreamError)
	assert.True(t, ok, "non-2xx must yield an UpstreamError")
	assert.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
	assert.Contains(t, upstream.Error(), "maintenance")
}

func TestWebhookForwardUnconfigured(t *testing.T) {
	service := NewWebhookService(&config.Config{})
	_, err := service.Forward(map[string]interface{}{})
	assert.Error(t, err)
}
