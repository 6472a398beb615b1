package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListModelsHandler handles the gemini_list_models tool. It queries the
// upstream models endpoint and formats a readable report of every model
// that supports content generation.
func (s *GeminiServer) ListModelsHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := getLoggerFromContext(ctx)
	logger.Info("Handling gemini_list_models request")

	if res := s.requireAPIKey(); res != nil {
		return res, nil
	}

	models, err := s.client.ListModels(ctx)
	if err != nil {
		logger.Error("Error listing models: %v", err)
		return createErrorResult(fmt.Sprintf("Error listing models: %v", err)), nil
	}

	writer := NewSafeWriter(logger)
	writer.Write("Available Gemini models:\n")

	for _, model := range models {
		if !supportsGenerateContent(model) {
			continue
		}

		writer.Write("\n## %s\n", model.Name)
		writer.Write("- **Display name**: %s\n", model.DisplayName)
		writer.Write("- **Description**: %s\n", model.Description)
		if model.InputTokenLimit > 0 {
			writer.Write("- **Input token limit**: %d\n", model.InputTokenLimit)
		}
		if model.OutputTokenLimit > 0 {
			writer.Write("- **Output token limit**: %d\n", model.OutputTokenLimit)
		}
		writer.Write("- **Supported methods**: %s\n", strings.Join(model.SupportedGenerationMethods, ", "))
	}

	if writer.Failed() {
		return createErrorResult("Error generating model list"), nil
	}

	return createTextResult(writer.String()), nil
}

func supportsGenerateContent(model ModelEntry) bool {
	for _, method := range model.SupportedGenerationMethods {
		if method == "generateContent" {
			return true
		}
	}
	return false
}
