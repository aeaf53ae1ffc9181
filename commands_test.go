package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fincopilot/config"
	"fincopilot/transport"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", cfgPath))

	err := cmd.Execute()
	return out.String(), err
}

func TestHealthCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, "health", "--endpoint", srv.URL+"/chat")
	require.NoError(t, err)
	assert.Contains(t, out, "is healthy")
}

func TestHealthCommandReportsDownBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := runCLI(t, "health", "--endpoint", srv.URL+"/chat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not healthy")
}

func TestRememberCommandSendsTypedValue(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"memory": map[string]any{"prefs": map[string]any{"budget": got["value"]}, "history_size": 2},
		})
	}))
	defer srv.Close()

	out, err := runCLI(t, "remember", "budget", "500", "--endpoint", srv.URL+"/chat", "--session-id", "desk-7")
	require.NoError(t, err)

	assert.Equal(t, "desk-7", got["session_id"])
	assert.Equal(t, float64(500), got["value"])
	assert.Contains(t, out, "budget = 500")
	assert.Contains(t, out, "2 messages")
}

func TestMemoryCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/memory/web-user", r.URL.Path)
		_, _ = w.Write([]byte(`{"prefs":{},"history_size":0}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, "memory", "--endpoint", srv.URL+"/chat")
	require.NoError(t, err)
	assert.Contains(t, out, "No preferences stored")
}

func TestConfigCommandSave(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "--save", "--config", cfgPath, "--endpoint", "http://copilot.internal/chat"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Saved configuration")

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "http://copilot.internal/chat", cfg.Endpoint)
	assert.Equal(t, config.DefaultSessionID, cfg.SessionID)
}

func TestConfigCommandSaveKeepsAutoSessionID(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "--save", "--config", cfgPath, "--session-id", config.AutoSessionID})
	require.NoError(t, cmd.Execute())

	raw, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `session_id = "auto"`)

	saved, err := config.LoadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.AutoSessionID, saved.SessionID)

	// Each run that talks to the backend still resolves its own session
	first, err := config.Load(cfgPath)
	require.NoError(t, err)
	require.NoError(t, first.Finalize())
	second, err := config.Load(cfgPath)
	require.NoError(t, err)
	require.NoError(t, second.Finalize())
	assert.NotEqual(t, first.SessionID, second.SessionID)
}

func TestInvalidFlagFailsValidation(t *testing.T) {
	_, err := runCLI(t, "memory", "--endpoint", "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint")
}

func TestParseMemoryValue(t *testing.T) {
	assert.Equal(t, "INR", parseMemoryValue("INR"))
	assert.Equal(t, float64(3), parseMemoryValue("3"))
	assert.Equal(t, true, parseMemoryValue("true"))
	assert.Equal(t, []any{"a", "b"}, parseMemoryValue(`["a","b"]`))
}

func TestPrintMemorySortsKeys(t *testing.T) {
	var buf bytes.Buffer
	snap := &transport.MemorySnapshot{Prefs: map[string]any{"name": "Asha", "currency": "INR"}, HistorySize: 4}

	require.NoError(t, printMemory(&buf, "s", snap))
	assert.Equal(t, "Session s (4 messages in history)\n  currency = \"INR\"\n  name = \"Asha\"\n", buf.String())
}
