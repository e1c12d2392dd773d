package aiproxy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridwatch-sim/internal/config"
)

func testClient(t *testing.T, url string, env map[string]string) *ChatClient {
	t.Helper()
	c := NewChatClient(config.AIConfig{
		BaseURL:     url + "/",
		Model:       "test-model",
		APIKeyEnv:   "TEST_AI_KEY",
		Timeout:     "2s",
		MaxTokens:   100,
		Temperature: 0.3,
	})
	c.getenv = func(k string) string { return env[k] }
	return c
}

func TestChatClientComplete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  all good \n"}}]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, map[string]string{"TEST_AI_KEY": "sk-test"})
	answer, err := c.Complete(context.Background(), "sys", "hello")
	require.NoError(t, err)
	assert.Equal(t, "all good", answer)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[1].Content)
	assert.Equal(t, 100, got.MaxTokens)
}

func TestChatClientMissingKey(t *testing.T) {
	c := testClient(t, "http://127.0.0.1:0", nil)
	_, err := c.Complete(context.Background(), "sys", "hello")
	require.Error(t, err)
	assert.Equal(t, ConfigurationError, KindOf(err))
}

func TestChatClientUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, map[string]string{"TEST_AI_KEY": "k"})
	_, err := c.Complete(context.Background(), "sys", "hello")
	require.Error(t, err)
	assert.Equal(t, UpstreamFailure, KindOf(err))
	assert.Contains(t, err.Error(), "429")
}

func TestChatClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, map[string]string{"TEST_AI_KEY": "k"})
	_, err := c.Complete(context.Background(), "sys", "hello")
	assert.Equal(t, UpstreamFailure, KindOf(err))
}

func TestChatClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := testClient(t, srv.URL, map[string]string{"TEST_AI_KEY": "k"})
	c.timeout = 50 * time.Millisecond
	_, err := c.Complete(context.Background(), "sys", "hello")
	require.Error(t, err)
	assert.Equal(t, UpstreamFailure, KindOf(err))
}
