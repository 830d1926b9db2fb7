// Package amlhttp provides a screening.Screener implementation backed by a
// JSON-over-HTTP compliance provider (base URL and API key from config).
package amlhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"wefund/pkg/domain"
	"wefund/pkg/screening"
	"wefund/pkg/serrors"
)

// Client talks to the compliance provider's screening endpoint and fulfills
// the screening.Screener interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs HTTP requests to the provider
	baseURL    string       // baseURL of the provider API, no trailing slash
	apiKey     string       // apiKey authenticates requests
}

// Screen submits the person for screening and returns the provider verdict.
func (c *Client) Screen(ctx context.Context, request screening.Request) (domain.ScreeningResult, error) {
	type screenReq struct {
		FullName    string `json:"full_name"`
		DateOfBirth string `json:"date_of_birth,omitempty"`
		Country     string `json:"country,omitempty"`
		IDNumber    string `json:"id_number,omitempty"`
		Level       string `json:"level"`
	}
	bodyBytes, err := json.Marshal(screenReq{
		FullName:    request.FullName,
		DateOfBirth: request.DateOfBirth,
		Country:     request.Country,
		IDNumber:    request.IDNumber,
		Level:       string(request.Level),
	})
	if err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx,
		http.MethodPost,
		c.baseURL+"/v1/screen",
		strings.NewReader(string(bodyBytes)))
	if err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.ScreeningResult{},
			serrors.With(serrors.ErrRateLimited, "rate limited: %s", strings.TrimSpace(string(b)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.ScreeningResult{}, fmt.Errorf("screen failed: %s", strings.TrimSpace(string(b)))
	}

	var result domain.ScreeningResult
	if err := json.Unmarshal(b, &result); err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("could not decode response: %w", err)
	}

	return result, nil
}

// Ensure Client conforms to the screening.Screener interface at compile time.
var _ screening.Screener = (*Client)(nil)

// New constructs a Client for the given provider base URL and API key.
func New(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}
