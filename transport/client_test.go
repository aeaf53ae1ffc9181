package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/chat", "")
	require.NoError(t, err)
	return c
}

func TestChatSendsSessionAndMessage(t *testing.T) {
	var got map[string]any
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"reply":"Groceries","memory":{"history_size":1},"extra":true}`))
	})

	resp, err := c.Chat(context.Background(), ChatRequest{SessionID: "web-user", Message: "Show my top merchants"})
	require.NoError(t, err)

	assert.Equal(t, "Groceries", resp.Reply)
	assert.Equal(t, map[string]any{"session_id": "web-user", "message": "Show my top merchants"}, got,
		"optional personalization is omitted when unset")
}

func TestChatForwardsPersonalization(t *testing.T) {
	var got ChatRequest
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"reply":"ok"}`))
	})

	_, err := c.Chat(context.Background(), ChatRequest{SessionID: "s", Message: "m", Name: "Asha", Currency: "INR"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, "INR", got.Currency)
}

func TestChatFailuresShareOneBucket(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "non-2xx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"detail":"Agent failed to initialize."}`))
			},
			want: "HTTP 500",
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>gateway</html>"))
			},
			want: "decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newBackend(t, tt.handler)

			resp, err := c.Chat(context.Background(), ChatRequest{SessionID: "s", Message: "m"})
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Contains(t, err.Error(), tt.want)

			text := ReplyText(resp, err)
			assert.True(t, strings.HasPrefix(text, ErrorPrefix), text)
		})
	}
}

func TestChatNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/chat"
	srv.Close()

	c, err := NewClient(endpoint, "")
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), ChatRequest{SessionID: "s", Message: "m"})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(ReplyText(nil, err), ErrorPrefix))
}

func TestReplyText(t *testing.T) {
	assert.Equal(t, "Groceries", ReplyText(&ChatResponse{Reply: "Groceries"}, nil))
	assert.Equal(t, EmptyReply, ReplyText(&ChatResponse{}, nil), "missing reply field")
	assert.Equal(t, EmptyReply, ReplyText(nil, nil))
	assert.Equal(t, "(Error) boom", ReplyText(nil, errors.New("boom")))
}

func TestHealth(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	require.NoError(t, c.Health(context.Background()))

	down := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"degraded"}`))
	})
	require.Error(t, down.Health(context.Background()))
}

func TestRememberAndMemory(t *testing.T) {
	prefs := map[string]any{}
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/remember":
			var req struct {
				SessionID string `json:"session_id"`
				Key       string `json:"key"`
				Value     any    `json:"value"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "web user", req.SessionID)
			prefs[req.Key] = req.Value
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ok":     true,
				"memory": map[string]any{"prefs": prefs, "history_size": 0},
			})
		case r.Method == http.MethodGet && r.URL.EscapedPath() == "/memory/web%20user":
			_ = json.NewEncoder(w).Encode(map[string]any{"prefs": prefs, "history_size": 3})
		default:
			http.NotFound(w, r)
		}
	})

	snap, err := c.Remember(context.Background(), "web user", "currency", "INR")
	require.NoError(t, err)
	assert.Equal(t, "INR", snap.Prefs["currency"])

	snap, err = c.Memory(context.Background(), "web user")
	require.NoError(t, err)
	assert.Equal(t, 3, snap.HistorySize)
	assert.Equal(t, "INR", snap.Prefs["currency"])
}

func TestNewClientRejectsBadEndpoint(t *testing.T) {
	_, err := NewClient("::nope", "")
	require.Error(t, err)
}
