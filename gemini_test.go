package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinishReasonUnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want FinishReason
	}{
		{"numeric stop", `1`, FinishStop},
		{"numeric safety", `2`, FinishSafety},
		{"numeric max tokens", `3`, FinishMaxTokens},
		{"string stop", `"STOP"`, FinishStop},
		{"string safety", `"SAFETY"`, FinishSafety},
		{"string max tokens", `"MAX_TOKENS"`, FinishMaxTokens},
		{"empty string", `""`, FinishUnspecified},
		{"unspecified enum", `"FINISH_REASON_UNSPECIFIED"`, FinishUnspecified},
		{"unrecognized enum", `"RECITATION"`, FinishOther},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got FinishReason
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFinishReasonUnmarshalInvalid(t *testing.T) {
	var got FinishReason
	err := json.Unmarshal([]byte(`{"bad": true}`), &got)
	assert.Error(t, err)
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 429, Body: `{"error": "quota"}`}
	assert.Equal(t, `API error 429: {"error": "quota"}`, err.Error())
}

func TestGeminiClientSendsAPIKey(t *testing.T) {
	var gotKey, gotPath, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	t.Cleanup(server.Close)

	client := NewGeminiClient("secret-key", server.URL, 5*time.Second)
	_, err := client.GenerateContent(newTestContext(), "gemini-2.5-flash", &GenerateContentRequest{
		Contents: []Content{{Role: roleUser, Parts: []Part{{Text: "hi"}}}},
	})
	require.NoError(t, err)

	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "application/json", gotContentType)
}

func TestGeminiClientNetworkFailure(t *testing.T) {
	// A closed server produces a transport-level failure, not an APIError
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewGeminiClient("key", server.URL, time.Second)
	_, err := client.GenerateContent(newTestContext(), "gemini-2.5-flash", &GenerateContentRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request to Gemini API failed")
}

func TestGeminiClientDecodesFinishReasonFromWire(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": [{"finishReason": "SAFETY"}]}`))
	}))
	t.Cleanup(server.Close)

	client := NewGeminiClient("key", server.URL, 5*time.Second)
	resp, err := client.GenerateContent(newTestContext(), "gemini-2.5-flash", &GenerateContentRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, FinishSafety, resp.Candidates[0].FinishReason)
}
