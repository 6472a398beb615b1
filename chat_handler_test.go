package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatHandlerValidation(t *testing.T) {
	testCases := []struct {
		name     string
		args     map[string]interface{}
		wantText []string
	}{
		{
			name:     "missing message",
			args:     map[string]interface{}{},
			wantText: []string{"message"},
		},
		{
			name:     "empty message",
			args:     map[string]interface{}{"message": ""},
			wantText: []string{"message"},
		},
		{
			name: "unknown model enumerates valid set",
			args: map[string]interface{}{"message": "hi", "model": "gpt-4"},
			wantText: []string{
				"gpt-4",
				"gemini-2.5-flash", "gemini-2.0-flash", "gemini-1.5-flash",
				"gemini-1.5-pro", "gemini-pro", "gemini-pro-vision",
			},
		},
		{
			name:     "temperature above range",
			args:     map[string]interface{}{"message": "hi", "temperature": 1.5},
			wantText: []string{"temperature"},
		},
		{
			name:     "temperature below range",
			args:     map[string]interface{}{"message": "hi", "temperature": -0.5},
			wantText: []string{"temperature"},
		},
		{
			name:     "max_tokens out of range",
			args:     map[string]interface{}{"message": "hi", "max_tokens": float64(10000)},
			wantText: []string{"max_tokens"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stub := newStubUpstream(t, http.StatusOK, `{}`)
			s := newTestGeminiServer(newTestConfig(), stub.server.URL)

			res, err := s.ChatHandler(newTestContext(), callTool("gemini_chat", tc.args))
			require.NoError(t, err)

			text := resultText(t, res)
			for _, want := range tc.wantText {
				assert.Contains(t, text, want)
			}
			assert.True(t, res.IsError)
			assert.Equal(t, int32(0), stub.calls.Load(), "validation failure must not reach the network")
		})
	}
}

func TestChatHandlerMissingAPIKey(t *testing.T) {
	stub := newStubUpstream(t, http.StatusOK, `{}`)
	cfg := newTestConfig()
	cfg.GeminiAPIKey = ""
	s := newTestGeminiServer(cfg, stub.server.URL)

	res, err := s.ChatHandler(newTestContext(), callTool("gemini_chat", map[string]interface{}{"message": "hi"}))
	require.NoError(t, err)

	text := resultText(t, res)
	assert.True(t, len(text) > 0)
	assert.Regexp(t, `^Error: GEMINI_API_KEY not configured`, text)
	assert.Equal(t, int32(0), stub.calls.Load())
}

func TestChatHandlerConcatenatesParts(t *testing.T) {
	stub := newStubUpstream(t, http.StatusOK, `{
		"candidates": [{
			"content": {"role": "model", "parts": [{"text": "Hello, "}, {"text": "world!"}]},
			"finishReason": "STOP"
		}]
	}`)
	s := newTestGeminiServer(newTestConfig(), stub.server.URL)

	res, err := s.ChatHandler(newTestContext(), callTool("gemini_chat", map[string]interface{}{"message": "greet"}))
	require.NoError(t, err)

	assert.Equal(t, "Hello, world!", resultText(t, res))
	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestChatHandlerBlockedPrompt(t *testing.T) {
	stub := newStubUpstream(t, http.StatusOK, `{"promptFeedback": {"blockReason": "SAFETY"}}`)
	s := newTestGeminiServer(newTestConfig(), stub.server.URL)

	res, err := s.ChatHandler(newTestContext(), callTool("gemini_chat", map[string]interface{}{"message": "hi"}))
	require.NoError(t, err)

	text := resultText(t, res)
	assert.Contains(t, text, "blocked")
	assert.Contains(t, text, "SAFETY")
}

func TestChatHandlerFilteredResponse(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{
			name: "numeric finish reason",
			body: `{"candidates": [{"finishReason": 3}]}`,
		},
		{
			name: "string finish reason",
			body: `{"candidates": [{"finishReason": "MAX_TOKENS"}]}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stub := newStubUpstream(t, http.StatusOK, tc.body)
			s := newTestGeminiServer(newTestConfig(), stub.server.URL)

			res, err := s.ChatHandler(newTestContext(), callTool("gemini_chat", map[string]interface{}{"message": "hi"}))
			require.NoError(t, err)

			text := resultText(t, res)
			assert.Contains(t, text, "filtered")
			assert.Contains(t, text, "MAX_TOKENS")
		})
	}
}

func TestChatHandlerEmptyResponse(t *testing.T) {
	stub := newStubUpstream(t, http.StatusOK, `{"candidates": []}`)
	s := newTestGeminiServer(newTestConfig(), stub.server.URL)

	res, err := s.ChatHandler(newTestContext(), callTool("gemini_chat", map[string]interface{}{"message": "hi"}))
	require.NoError(t, err)

	assert.Equal(t, "Error: No response generated", resultText(t, res))
}

func TestChatHandlerUpstreamHTTPError(t *testing.T) {
	stub := newStubUpstream(t, http.StatusInternalServerError, `{"error": {"message": "boom"}}`)
	s := newTestGeminiServer(newTestConfig(), stub.server.URL)

	res, err := s.ChatHandler(newTestContext(), callTool("gemini_chat", map[string]interface{}{"message": "hi"}))
	require.NoError(t, err)

	text := resultText(t, res)
	assert.Contains(t, text, "API error 500")
	assert.Contains(t, text, "boom")
	assert.Equal(t, int32(1), stub.calls.Load(), "upstream errors are terminal, never retried")
}

func TestChatHandlerSystemPromptTurns(t *testing.T) {
	stub := newStubUpstream(t, http.StatusOK, `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "ok"}]}, "finishReason": "STOP"}]
	}`)
	s := newTestGeminiServer(newTestConfig(), stub.server.URL)

	_, err := s.ChatHandler(newTestContext(), callTool("gemini_chat", map[string]interface{}{
		"message":       "hello",
		"system_prompt": "Answer in French.",
	}))
	require.NoError(t, err)

	var sent GenerateContentRequest
	require.NoError(t, json.Unmarshal(stub.LastBody(), &sent))

	// System prompts become a user turn plus a model acknowledgement turn,
	// ahead of the actual message.
	require.Len(t, sent.Contents, 3)
	assert.Equal(t, roleUser, sent.Contents[0].Role)
	assert.Equal(t, "Answer in French.", sent.Contents[0].Parts[0].Text)
	assert.Equal(t, roleModel, sent.Contents[1].Role)
	assert.Equal(t, systemPromptAck, sent.Contents[1].Parts[0].Text)
	assert.Equal(t, roleUser, sent.Contents[2].Role)
	assert.Equal(t, "hello", sent.Contents[2].Parts[0].Text)
}

func TestChatHandlerSendsGenerationParameters(t *testing.T) {
	stub := newStubUpstream(t, http.StatusOK, `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "ok"}]}, "finishReason": "STOP"}]
	}`)
	s := newTestGeminiServer(newTestConfig(), stub.server.URL)

	_, err := s.ChatHandler(newTestContext(), callTool("gemini_chat", map[string]interface{}{
		"message":     "hello",
		"temperature": 0.2,
		"max_tokens":  float64(512),
	}))
	require.NoError(t, err)

	var sent GenerateContentRequest
	require.NoError(t, json.Unmarshal(stub.LastBody(), &sent))

	require.NotNil(t, sent.GenerationConfig)
	require.NotNil(t, sent.GenerationConfig.Temperature)
	assert.Equal(t, 0.2, *sent.GenerationConfig.Temperature)
	assert.Equal(t, 512, sent.GenerationConfig.MaxOutputTokens)
	require.NotNil(t, sent.GenerationConfig.TopP)
	assert.Equal(t, defaultGeminiTopP, *sent.GenerationConfig.TopP)
	require.NotNil(t, sent.GenerationConfig.TopK)
	assert.Equal(t, defaultGeminiTopK, *sent.GenerationConfig.TopK)

	require.Len(t, sent.SafetySettings, 4)
	for _, setting := range sent.SafetySettings {
		assert.Equal(t, "BLOCK_NONE", setting.Threshold)
	}
}
