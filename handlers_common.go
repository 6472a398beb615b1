package main

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// extractArgumentString extracts a string argument from the request parameters
func extractArgumentString(req mcp.CallToolRequest, name string, defaultValue string) string {
	args := req.GetArguments()
	if val, ok := args[name].(string); ok && val != "" {
		return val
	}
	return defaultValue
}

// extractArgumentFloat extracts a numeric argument from the request parameters.
// JSON numbers arrive as float64 regardless of the declared schema type.
func extractArgumentFloat(req mcp.CallToolRequest, name string, defaultValue float64) float64 {
	args := req.GetArguments()
	if val, ok := args[name].(float64); ok {
		return val
	}
	return defaultValue
}

// extractArgumentInt extracts an integer argument from the request parameters
func extractArgumentInt(req mcp.CallToolRequest, name string, defaultValue int) int {
	args := req.GetArguments()
	if val, ok := args[name].(float64); ok {
		return int(val)
	}
	return defaultValue
}

// validateRequiredString validates that a required string parameter is present
// and not empty
func validateRequiredString(req mcp.CallToolRequest, paramName string) (string, error) {
	value, ok := req.GetArguments()[paramName].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%s must be a string and cannot be empty", paramName)
	}
	return value, nil
}

// createErrorResult creates a standardized error result for mcp.CallToolResult
func createErrorResult(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(message)
}

// createTextResult creates a plain text result
func createTextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// missingAPIKeyText is returned by every tool when no key is configured.
// The key is re-checked on each call so the server can start without one.
const missingAPIKeyText = "Error: GEMINI_API_KEY not configured. " +
	"Set the GEMINI_API_KEY environment variable to your Gemini API key."

// requireAPIKey returns an error result when no API key is configured,
// or nil when the call may proceed.
func (s *GeminiServer) requireAPIKey() *mcp.CallToolResult {
	if s.config.GeminiAPIKey == "" {
		return createErrorResult(missingAPIKeyText)
	}
	return nil
}

// SafeWriter provides error-safe writing to strings.Builder for handlers
type SafeWriter struct {
	builder *strings.Builder
	logger  Logger
	failed  bool
}

// NewSafeWriter creates a new SafeWriter instance
func NewSafeWriter(logger Logger) *SafeWriter {
	return &SafeWriter{
		builder: &strings.Builder{},
		logger:  logger,
	}
}

// Write adds formatted content to the builder, logging errors but continuing
func (sw *SafeWriter) Write(format string, args ...interface{}) {
	if sw.failed {
		return
	}
	_, err := sw.builder.WriteString(fmt.Sprintf(format, args...))
	if err != nil {
		sw.logger.Error("Error writing to response: %v", err)
		sw.failed = true
	}
}

// Failed returns true if any write operations have failed
func (sw *SafeWriter) Failed() bool {
	return sw.failed
}

// String returns the built string
func (sw *SafeWriter) String() string {
	return sw.builder.String()
}
