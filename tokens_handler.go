package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// CountTokensHandler handles the gemini_count_tokens tool
func (s *GeminiServer) CountTokensHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := getLoggerFromContext(ctx)

	if res := s.requireAPIKey(); res != nil {
		return res, nil
	}

	message, err := validateRequiredString(req, "message")
	if err != nil {
		logger.Error("Invalid count request: %v", err)
		return createErrorResult(fmt.Sprintf("Error: %v", err)), nil
	}

	model := extractArgumentString(req, "model", s.config.GeminiModel)
	if err := ValidateModelID(model); err != nil {
		logger.Error("Invalid model requested: %v", err)
		return createErrorResult(fmt.Sprintf("Error: %v", err)), nil
	}

	logger.Info("Counting tokens for model %s", model)

	resp, err := s.client.CountTokens(ctx, model, &CountTokensRequest{
		Contents: []Content{
			{Role: roleUser, Parts: []Part{{Text: message}}},
		},
	})
	if err != nil {
		logger.Error("Error counting tokens: %v", err)
		return createErrorResult(fmt.Sprintf("Error counting tokens: %v", err)), nil
	}

	return createTextResult(fmt.Sprintf("Token count for %s: %d", model, resp.TotalTokens)), nil
}
