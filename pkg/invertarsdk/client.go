// Package invertarsdk is the Go client for the Invertar inventory service.
// The server keeps its session in HTTP-only cookies, so the client carries a
// cookie jar and a Session object that mirrors the server's view of who is
// logged in.
package invertarsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// DefaultTimeout bounds every request, including the initial session
// bootstrap, so a dead network degrades to logged-out instead of hanging.
const DefaultTimeout = 10 * time.Second

// Client talks to an Invertar server. Cookies (and therefore the session)
// live in the jar; a zero-value Client is not usable, construct with
// NewClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with a fresh cookie jar and the default
// timeout.
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("invertarsdk: create cookie jar: %w", err)
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: DefaultTimeout,
		},
	}, nil
}

// Login authenticates with a password or, during onboarding, a one-time
// access code. On a SUCCESS outcome the session cookies land in the jar.
func (c *Client) Login(ctx context.Context, req LoginRequest) (StatusResponse, error) {
	return c.postStatus(ctx, "/v1/auth/login", req)
}

// SetPasswordWithCode consumes a one-time access code to set the account's
// first password.
func (c *Client) SetPasswordWithCode(ctx context.Context, req SetPasswordRequest) (StatusResponse, error) {
	return c.postStatus(ctx, "/v1/auth/set-password", req)
}

// RefreshToken exchanges the refresh cookie for a fresh cookie pair.
func (c *Client) RefreshToken(ctx context.Context) (StatusResponse, error) {
	return c.postStatus(ctx, "/v1/auth/refresh", nil)
}

// Logout clears the session cookies.
func (c *Client) Logout(ctx context.Context) (StatusResponse, error) {
	return c.postStatus(ctx, "/v1/auth/logout", nil)
}

// CurrentUser answers "who am I" from the access cookie.
func (c *Client) CurrentUser(ctx context.Context) (UserInfo, error) {
	var out UserInfo
	if err := c.doJSON(ctx, http.MethodGet, "/v1/me", nil, &out); err != nil {
		return UserInfo{}, err
	}
	return out, nil
}

// Health calls the liveness probe.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &out); err != nil {
		return HealthResponse{}, err
	}
	return out, nil
}

func (c *Client) postStatus(ctx context.Context, path string, body any) (StatusResponse, error) {
	var out StatusResponse
	if err := c.doJSON(ctx, http.MethodPost, path, body, &out); err != nil {
		return StatusResponse{}, err
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("invertarsdk: encode request: %w", err)
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, payload)
	if err != nil {
		return fmt.Errorf("invertarsdk: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("invertarsdk: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invertarsdk: decode response: %w", err)
	}
	return nil
}
