// Package faucet requests test-network funding for an address.
package faucet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultURL     = "https://faucet.altnet.rippletest.net/accounts"
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
)

// Error carries the faucet's own status code and response body.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("faucet returned status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	url  string
	http *http.Client
}

func New(url string, httpClient *http.Client) *Client {
	if strings.TrimSpace(url) == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{url: url, http: httpClient}
}

func (c *Client) URL() string { return c.url }

// Fund asks the faucet to credit destination and returns its JSON reply.
func (c *Client) Fund(ctx context.Context, destination string) (_ json.RawMessage, retErr error) {
	payload, err := json.Marshal(map[string]string{"destination": destination})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("faucet request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && retErr == nil {
			retErr = closeErr
		}
	}()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read faucet response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("faucet returned invalid json")
	}
	return json.RawMessage(body), nil
}
