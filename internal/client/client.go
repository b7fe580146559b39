// Package client talks to the BudgetBox sync backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/baharkarakas/budgetbox/internal/models"
)

const (
	defaultTimeout = 5 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "budgetbox-cli/1.0"
)

// ErrUserNotFound is returned when the server does not know the email.
var ErrUserNotFound = errors.New("client: user not found")

// APIError is any other non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("client: server returned %d", e.Status)
	}
	return fmt.Sprintf("client: server returned %d %s: %s", e.Status, e.Code, e.Message)
}

type Health struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

type Client struct {
	base    string
	email   string
	http    *http.Client
	timeout time.Duration
}

// New returns a client for the server at baseURL acting as email. A zero
// timeout uses the default.
func New(baseURL, email string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		email:   email,
		http:    &http.Client{},
		timeout: timeout,
	}
}

func (c *Client) Email() string { return c.email }

// Health probes GET /. Any error means the server is unreachable.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	body, err := c.do(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return nil, err
	}
	var h Health
	if err := json.Unmarshal(body, &h); err != nil {
		return nil, fmt.Errorf("client: parsing health: %w", err)
	}
	return &h, nil
}

// Push sends the full budget and returns the server timestamp.
func (c *Client) Push(ctx context.Context, b models.Budget) (time.Time, error) {
	payload, err := json.Marshal(struct {
		Email  string        `json:"email"`
		Budget models.Budget `json:"budget"`
	}{c.email, b})
	if err != nil {
		return time.Time{}, err
	}
	body, err := c.do(ctx, http.MethodPost, "/budget/sync", payload)
	if err != nil {
		return time.Time{}, err
	}
	var resp struct {
		Success   bool      `json:"success"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return time.Time{}, fmt.Errorf("client: parsing sync response: %w", err)
	}
	if !resp.Success {
		return time.Time{}, errors.New("client: server did not confirm sync")
	}
	return resp.Timestamp, nil
}

// Latest returns nil, nil when the server has no snapshot for the user.
func (c *Client) Latest(ctx context.Context) (*models.BudgetSnapshot, error) {
	body, err := c.do(ctx, http.MethodGet, "/budget/latest?"+c.emailQuery(), nil)
	if err != nil {
		return nil, err
	}
	snap, err := models.DecodeSnapshot(body)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	return snap, nil
}

// History returns up to ten snapshots, newest first.
func (c *Client) History(ctx context.Context) ([]models.BudgetSnapshot, error) {
	body, err := c.do(ctx, http.MethodGet, "/budget/history?"+c.emailQuery(), nil)
	if err != nil {
		return nil, err
	}
	var list []models.BudgetSnapshot
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("client: parsing history: %w", err)
	}
	return list, nil
}

func (c *Client) emailQuery() string {
	return url.Values{"email": {c.email}}.Encode()
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, fmt.Errorf("client: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("client: reading response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound && strings.HasPrefix(path, "/budget/") {
		return nil, ErrUserNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(body, &eb) == nil {
			apiErr.Code, apiErr.Message = eb.Code, eb.Error
		}
		return nil, apiErr
	}
	return body, nil
}
