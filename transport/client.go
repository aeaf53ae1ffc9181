package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ChatRequest is the body posted to the chat endpoint. Name and Currency
// are optional personalization the backend remembers per session.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Name      string `json:"name,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

// ChatResponse carries the reply. Fields the backend adds beyond these
// are ignored.
type ChatResponse struct {
	Reply  string         `json:"reply"`
	Memory map[string]any `json:"memory,omitempty"`
}

// MemorySnapshot mirrors GET /memory/{session_id}
type MemorySnapshot struct {
	Prefs       map[string]any `json:"prefs"`
	HistorySize int            `json:"history_size"`
}

type Client struct {
	httpClient *http.Client
	endpoint   string
	baseURL    string
}

// NewClient builds a client for endpoint. Sibling routes (/health, /remember,
// /memory) are resolved against baseURL. No timeout is set; callers bound
// requests through ctx.
func NewClient(endpoint, baseURL string) (*Client, error) {
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, errors.Wrapf(err, "invalid chat endpoint %q", endpoint)
	}
	if baseURL == "" {
		baseURL = strings.TrimSuffix(endpoint, "/chat")
	}

	return &Client{
		httpClient: &http.Client{},
		endpoint:   endpoint,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Chat posts one message and decodes the reply. Every failure (network,
// non-2xx, undecodable body) comes back as an error; the caller decides
// how to show it.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint, req, &resp); err != nil {
		return nil, errors.Wrap(err, "chat request failed")
	}

	log.Debug().
		Str("session_id", req.SessionID).
		Int("reply_len", len(resp.Reply)).
		Msg("chat reply received")

	return &resp, nil
}

// Health pings GET /health
func (c *Client) Health(ctx context.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/health", nil, &body); err != nil {
		return errors.Wrap(err, "health check failed")
	}
	if body.Status != "ok" {
		return errors.Errorf("backend reported status %q", body.Status)
	}
	return nil
}

// Remember stores a per-session preference on the backend
func (c *Client) Remember(ctx context.Context, sessionID, key string, value any) (*MemorySnapshot, error) {
	req := struct {
		SessionID string `json:"session_id"`
		Key       string `json:"key"`
		Value     any    `json:"value"`
	}{sessionID, key, value}

	var resp struct {
		OK     bool           `json:"ok"`
		Memory MemorySnapshot `json:"memory"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/remember", req, &resp); err != nil {
		return nil, errors.Wrap(err, "remember failed")
	}
	if !resp.OK {
		return nil, errors.New("backend did not accept preference")
	}
	return &resp.Memory, nil
}

// Memory fetches the backend's snapshot for a session
func (c *Client) Memory(ctx context.Context, sessionID string) (*MemorySnapshot, error) {
	var snap MemorySnapshot
	u := c.baseURL + "/memory/" + url.PathEscape(sessionID)
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &snap); err != nil {
		return nil, errors.Wrap(err, "memory lookup failed")
	}
	return &snap, nil
}

func (c *Client) doJSON(ctx context.Context, method, u string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}
