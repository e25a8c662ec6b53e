// Package api is the HTTP client for the DeepFake Detection backend.
// All calls are single-shot: no retry, no deduplication of overlapping
// invocations — callers issue at most one call per user action.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
)

// DefaultBaseURL is the local backend address used when nothing overrides it.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Client performs authenticated and unauthenticated calls against one
// backend base address.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a Client for the given base URL. An empty baseURL falls back
// to DefaultBaseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{BaseURL: baseURL, HTTPClient: http.DefaultClient}
}

// Register creates a new account. The success body is ignored beyond status.
func (c *Client) Register(ctx context.Context, email, password string) error {
	resp, err := c.postJSON(ctx, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return &ValidationError{Message: "Failed to reach server"}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ValidationError{Message: errorDetail(body, fmt.Sprintf("Registration failed (%d)", resp.StatusCode))}
	}
	return nil
}

// Login exchanges credentials for a bearer token and the canonical account email.
func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	resp, err := c.postJSON(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, &AuthError{Message: "Failed to reach server"}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &AuthError{Message: errorDetail(body, "Login failed")}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		User        struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.AccessToken == "" {
		return nil, &AuthError{Message: "Login failed"}
	}
	return &Credentials{Token: payload.AccessToken, Email: payload.User.Email}, nil
}

// Detect submits one media file as a multipart body to the kind-specific
// endpoint. The bearer header is attached only when token is non-empty.
//
// An unparseable response body is treated as an empty result object rather
// than a hard failure; the non-2xx check below still fires, so a broken
// error page surfaces as "Upload failed (<status>)".
func (c *Client) Detect(ctx context.Context, kind MediaKind, filename string, file io.Reader, token string) (*DetectionResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, &RequestError{Message: "Failed to reach server"}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &RequestError{Message: "Failed to reach server"}
	}
	if err := mw.Close(); err != nil {
		return nil, &RequestError{Message: "Failed to reach server"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/detect/"+kind.String(), &buf)
	if err != nil {
		return nil, &RequestError{Message: "Failed to reach server"}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &RequestError{Message: "Failed to reach server"}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var result DetectionResult
	_ = json.Unmarshal(body, &result) // lenient: malformed body → zero value

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{Message: errorDetail(body, fmt.Sprintf("Upload failed (%d)", resp.StatusCode))}
	}

	// Shape check at the boundary: never hand undefined fields to the UI.
	if (result.Label != "REAL" && result.Label != "FAKE") || result.Confidence < 0 || result.Confidence > 100 {
		return nil, &RequestError{Message: "Malformed detection response"}
	}
	return &result, nil
}

// FetchHistory retrieves the authenticated user's past scans, newest first.
// Callers must hold a token; invoking without one is a precondition violation.
//
// Unlike Detect, an unparseable body is escalated to an error: a history
// listing has no safe empty default.
func (c *Client) FetchHistory(ctx context.Context, token string) ([]HistoryEntry, error) {
	if token == "" {
		return nil, &AuthError{Message: "Not logged in"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/history", nil)
	if err != nil {
		return nil, &RequestError{Message: "Failed to reach server"}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &RequestError{Message: "Failed to reach server"}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var payload struct {
		Detail  string         `json:"detail"`
		History []HistoryEntry `json:"history"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &RequestError{Message: "Server error"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, &AuthError{Message: errorDetail(body, "Failed to load history")}
		}
		return nil, &RequestError{Message: errorDetail(body, "Failed to load history")}
	}
	return payload.History, nil
}

// postJSON issues a JSON POST to path relative to the base URL.
func (c *Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.HTTPClient.Do(req)
}

// errorDetail extracts the backend's "detail" message from an error body,
// falling back to the given generic message.
func errorDetail(body []byte, fallback string) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return fallback
}
