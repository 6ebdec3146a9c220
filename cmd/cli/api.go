package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// apiClient is a thin JSON client over the service REST APIs.
type apiClient struct {
	baseURL        string
	httpClient     *http.Client
	idempotencyKey string
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{Timeout: timeout},
	}
}

// apiError is a non-2xx response.
type apiError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *apiError) Error() string {
	msg := fmt.Sprintf("request failed (status %d): %s", e.Status, e.Message)
	for field, reason := range e.Fields {
		msg += fmt.Sprintf("\n  %s: %s", field, reason)
	}
	return msg
}

func (c *apiClient) do(method, path string, query url.Values, body any) (json.RawMessage, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.idempotencyKey != "" && method == http.MethodPost {
		req.Header.Set("Idempotency-Key", c.idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var decoded struct {
			Message          string            `json:"message"`
			ValidationErrors map[string]string `json:"validationErrors"`
		}
		if json.Unmarshal(raw, &decoded) == nil && decoded.Message != "" {
			apiErr.Message = decoded.Message
			apiErr.Fields = decoded.ValidationErrors
		}
		return nil, apiErr
	}

	return raw, nil
}

func (c *apiClient) get(path string, query url.Values) (json.RawMessage, error) {
	return c.do(http.MethodGet, path, query, nil)
}
