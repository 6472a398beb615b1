package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTokensHandler(t *testing.T) {
	t.Run("missing message", func(t *testing.T) {
		stub := newStubUpstream(t, http.StatusOK, `{"totalTokens": 42}`)
		s := newTestGeminiServer(newTestConfig(), stub.server.URL)

		res, err := s.CountTokensHandler(newTestContext(), callTool("gemini_count_tokens", map[string]interface{}{}))
		require.NoError(t, err)

		assert.Contains(t, resultText(t, res), "message")
		assert.Equal(t, int32(0), stub.calls.Load())
	})

	t.Run("unknown model", func(t *testing.T) {
		stub := newStubUpstream(t, http.StatusOK, `{"totalTokens": 42}`)
		s := newTestGeminiServer(newTestConfig(), stub.server.URL)

		res, err := s.CountTokensHandler(newTestContext(), callTool("gemini_count_tokens", map[string]interface{}{
			"message": "hello",
			"model":   "unknown-model",
		}))
		require.NoError(t, err)

		assert.Contains(t, resultText(t, res), "gemini-2.5-flash")
		assert.Equal(t, int32(0), stub.calls.Load())
	})

	t.Run("missing API key", func(t *testing.T) {
		stub := newStubUpstream(t, http.StatusOK, `{"totalTokens": 42}`)
		cfg := newTestConfig()
		cfg.GeminiAPIKey = ""
		s := newTestGeminiServer(cfg, stub.server.URL)

		res, err := s.CountTokensHandler(newTestContext(), callTool("gemini_count_tokens", map[string]interface{}{
			"message": "hello",
		}))
		require.NoError(t, err)

		assert.Regexp(t, `^Error: GEMINI_API_KEY not configured`, resultText(t, res))
		assert.Equal(t, int32(0), stub.calls.Load())
	})

	t.Run("returns total count", func(t *testing.T) {
		stub := newStubUpstream(t, http.StatusOK, `{"totalTokens": 42}`)
		s := newTestGeminiServer(newTestConfig(), stub.server.URL)

		res, err := s.CountTokensHandler(newTestContext(), callTool("gemini_count_tokens", map[string]interface{}{
			"message": "hello",
			"model":   "gemini-1.5-pro",
		}))
		require.NoError(t, err)

		assert.Equal(t, "Token count for gemini-1.5-pro: 42", resultText(t, res))
		assert.Equal(t, int32(1), stub.calls.Load())
	})

	t.Run("upstream error", func(t *testing.T) {
		stub := newStubUpstream(t, http.StatusForbidden, `{"error": {"message": "denied"}}`)
		s := newTestGeminiServer(newTestConfig(), stub.server.URL)

		res, err := s.CountTokensHandler(newTestContext(), callTool("gemini_count_tokens", map[string]interface{}{
			"message": "hello",
		}))
		require.NoError(t, err)

		text := resultText(t, res)
		assert.Contains(t, text, "Error counting tokens")
		assert.Contains(t, text, "API error 403")
	})
}
