package uac

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/0xPuncker/uac-task-api/internal/config"
	"golang.org/x/oauth2"
)

const (
	listTasksPath         = "/resources/task/list"
	listTasksAdvancedPath = "/resources/task/listadv"

	maxErrorBody = 512
)

// TaskFilter is the payload of the basic task list call.
type TaskFilter struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	UpdatedTimeType string `json:"updatedTimeType,omitempty"`
	UpdatedTime     string `json:"updatedTime,omitempty"`
}

// APIError is returned when the platform answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("UAC API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("UAC API returned status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Universal Controller REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

// New builds a client for cfg. No request is made.
func New(cfg config.UACConfig) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid UAC URL %q: %w", cfg.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid UAC URL %q: unsupported scheme %q", cfg.URL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid UAC URL %q: missing host", cfg.URL)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("empty UAC token")
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.Token,
		TokenType:   "Bearer",
	})

	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &oauth2.Transport{
				Source: tokenSource,
				Base:   transport,
			},
		},
	}, nil
}

// ListTasks calls the basic task list operation with filter.
func (c *Client) ListTasks(ctx context.Context, filter TaskFilter) (json.RawMessage, error) {
	payload, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("error marshaling task filter: %w", err)
	}
	return c.do(ctx, http.MethodPost, listTasksPath, payload)
}

// ListTasksAdvanced calls the advanced task list operation without filters.
func (c *Client) ListTasksAdvanced(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, listTasksAdvancedPath, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt := strings.TrimSpace(string(data))
		if len(excerpt) > maxErrorBody {
			excerpt = excerpt[:maxErrorBody]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: excerpt}
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to decode response: invalid JSON")
	}

	return json.RawMessage(data), nil
}
