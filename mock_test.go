package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

// newTestLogger creates a logger that writes to the provided buffer
func newTestLogger(buf *bytes.Buffer) Logger {
	return &StandardLogger{
		level:  LevelDebug,
		writer: buf,
	}
}

// newTestContext returns a context carrying a test logger
func newTestContext() context.Context {
	return context.WithValue(context.Background(), loggerKey, newTestLogger(&bytes.Buffer{}))
}

// newTestConfig returns a configuration with populated defaults and a fake key
func newTestConfig() *Config {
	return &Config{
		GeminiAPIKey:      "test-key",
		GeminiModel:       defaultGeminiModel,
		GeminiTemperature: defaultGeminiTemperature,
		GeminiMaxTokens:   defaultGeminiMaxTokens,
		GeminiTopP:        defaultGeminiTopP,
		GeminiTopK:        defaultGeminiTopK,
		GeminiBaseURL:     defaultGeminiBaseURL,
		SafetyThreshold:   defaultSafetyThreshold,
		HTTPTimeout:       5 * time.Second,
	}
}

// stubUpstream is a fake Gemini API endpoint that records call counts and
// the last request body, so tests can assert that validation failures never
// reach the network.
type stubUpstream struct {
	server *httptest.Server
	calls  atomic.Int32

	mu       sync.Mutex
	lastBody []byte
}

// newStubUpstream starts a stub endpoint answering every request with the
// given status and raw JSON body.
func newStubUpstream(t *testing.T, status int, body string) *stubUpstream {
	t.Helper()
	stub := &stubUpstream{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls.Add(1)
		reqBody, _ := io.ReadAll(r.Body)
		stub.mu.Lock()
		stub.lastBody = reqBody
		stub.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

// LastBody returns the most recent request body seen by the stub
func (s *stubUpstream) LastBody() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBody
}

// newTestGeminiServer creates a dispatcher pointed at the given stub endpoint
func newTestGeminiServer(cfg *Config, baseURL string) *GeminiServer {
	cfg.GeminiBaseURL = baseURL
	return NewGeminiServer(cfg)
}

// callTool builds a tool invocation request
func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultText extracts the single text block from a tool result
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	content, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", res.Content[0])
	return content.Text
}
