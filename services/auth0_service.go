package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lavexpress/lavexpress-api/config"
)

// Auth0UserInfo represents the user information returned from Auth0's /userinfo endpoint
type Auth0UserInfo struct {
	Sub   string `json:"sub"` // Auth0 user ID
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Auth0SignupResult is the response of the /dbconnections/signup endpoint
type Auth0SignupResult struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

// Auth0TokenResult is the response of the /oauth/token password grant.
// It is relayed to the storefront verbatim.
type Auth0TokenResult struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token,omitempty"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Auth0Service handles interactions with the Auth0 Authentication API.
// Registration and login are thin pass-throughs: no token or session
// logic lives in this codebase.
type Auth0Service struct {
	domain     string
	clientID   string
	audience   string
	httpClient *http.Client
}

// NewAuth0Service creates a new Auth0 service instance
func NewAuth0Service(cfg *config.Config) *Auth0Service {
	return &Auth0Service{
		domain:   cfg.Auth0Domain,
		clientID: cfg.Auth0ClientID,
		audience: cfg.Auth0Audience,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// baseURL returns the Auth0 base URL. If the configured domain already
// includes a protocol (for testing against httptest servers), it is
// used as-is.
func (s *Auth0Service) baseURL() string {
	if strings.HasPrefix(s.domain, "http://") || strings.HasPrefix(s.domain, "https://") {
		return s.domain
	}
	return "https://" + s.domain
}

// GetUserInfo fetches user information from Auth0's /userinfo endpoint
func (s *Auth0Service) GetUserInfo(accessToken string) (*Auth0UserInfo, error) {
	req, err := http.NewRequest("GET", s.baseURL()+"/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var userInfo Auth0UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}

	return &userInfo, nil
}

// Signup registers a new user against the Auth0 database connection
func (s *Auth0Service) Signup(email, password, fullName string) (*Auth0SignupResult, error) {
	payload := map[string]string{
		"client_id":  s.clientID,
		"connection": "Username-Password-Authentication",
		"email":      email,
		"password":   password,
		"name":       fullName,
	}

	resp, err := s.postJSON("/dbconnections/signup", payload)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("signup endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var result Auth0SignupResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode signup response: %w", err)
	}

	return &result, nil
}

// Login exchanges credentials for tokens using the password grant
func (s *Auth0Service) Login(email, password string) (*Auth0TokenResult, error) {
	payload := map[string]string{
		"grant_type": "http://auth0.com/oauth/grant-type/password-realm",
		"realm":      "Username-Password-Authentication",
		"client_id":  s.clientID,
		"audience":   s.audience,
		"username":   email,
		"password":   password,
		"scope":      "openid profile email",
	}

	resp, err := s.postJSON("/oauth/token", payload)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var result Auth0TokenResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &result, nil
}

func (s *Auth0Service) postJSON(path string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequest("POST", s.baseURL()+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", path, err)
	}
	return resp, nil
}
