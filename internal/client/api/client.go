// Package api implements the HTTP client for the FinContext backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fincontext/internal/common"
)

// ErrUnavailable indicates the server could not be reached at all.
var ErrUnavailable = errors.New("server unavailable")

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// Client talks to the backend REST API. It remembers the bearer token
// obtained by Login and sends it on subsequent requests.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// IsAuthenticated reports whether a Login has succeeded.
func (c *Client) IsAuthenticated() bool {
	return c.token != ""
}

// Logout forgets the stored token.
func (c *Client) Logout() {
	c.token = ""
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {

	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return &APIError{Status: resp.StatusCode, Message: envelope.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, email string, password []byte) error {
	return c.do(ctx, http.MethodPost, "/api/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": string(password),
	}, nil)
}

// Login authenticates and stores the issued bearer token on success.
func (c *Client) Login(ctx context.Context, username string, password []byte) error {
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": string(password),
	}, &resp)
	if err != nil {
		return err
	}
	c.token = resp.AccessToken
	return nil
}

// Profile is the authenticated user's account data.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Me returns the account the stored token belongs to.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Chat sends a free-text question and returns the assistant's answer.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var resp struct {
		Response string `json:"response"`
		Sender   string `json:"sender"`
	}
	err := c.do(ctx, http.MethodPost, "/api/chat", map[string]string{
		"message": message,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Stats is the spending dashboard for the authenticated user.
type Stats struct {
	TotalSpend  float64 `json:"total_spend"`
	TotalIncome float64 `json:"total_income"`
	TopCategory string  `json:"top_category"`
}

// GetStats returns the dashboard aggregates.
func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	var s Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
