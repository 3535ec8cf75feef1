package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// TestContext carries HTTP state between the steps of one scenario.
type TestContext struct {
	BaseURL     string
	AccessToken string
	HTTPClient  *http.Client

	LastStatus int
	LastBody   []byte

	saved map[string]string
}

// NewTestContext reads CATWATCH_E2E_BASE_URL and CATWATCH_E2E_TOKEN.
func NewTestContext() *TestContext {
	base := os.Getenv("CATWATCH_E2E_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return &TestContext{
		BaseURL:     strings.TrimRight(base, "/"),
		AccessToken: os.Getenv("CATWATCH_E2E_TOKEN"),
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		saved:       make(map[string]string),
	}
}

// Reset clears per-scenario state but keeps the configured credentials.
func (tc *TestContext) Reset() {
	tc.LastStatus = 0
	tc.LastBody = nil
	tc.saved = make(map[string]string)
}

func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.do(http.MethodPost, path, body)
}

func (tc *TestContext) PUT(path string, body any) error {
	return tc.do(http.MethodPut, path, body)
}

func (tc *TestContext) DELETE(path string) error {
	return tc.do(http.MethodDelete, path, nil)
}

func (tc *TestContext) do(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.AccessToken)
	}
	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	tc.LastStatus = resp.StatusCode
	tc.LastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) GetLastStatusCode() int { return tc.LastStatus }

// DecodeLast unmarshals the last response body into v.
func (tc *TestContext) DecodeLast(v any) error {
	if err := json.Unmarshal(tc.LastBody, v); err != nil {
		return fmt.Errorf("decode response %q: %w", string(tc.LastBody), err)
	}
	return nil
}

// GetResponseField returns a top-level field of the last JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var body map[string]any
	if err := tc.DecodeLast(&body); err != nil {
		return nil, err
	}
	v, ok := body[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response", field)
	}
	return v, nil
}

func (tc *TestContext) Save(key, value string) { tc.saved[key] = value }

func (tc *TestContext) Saved(key string) string { return tc.saved[key] }

func (tc *TestContext) SetAccessToken(token string) { tc.AccessToken = token }
