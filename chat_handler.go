package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// systemPromptAck is the synthetic model turn appended after a system
// prompt. The upstream conversation format has no system role, so the
// instruction is sent as a user turn followed by this acknowledgement.
const systemPromptAck = "Understood. I will follow these instructions."

// ChatHandler handles the gemini_chat tool
func (s *GeminiServer) ChatHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := getLoggerFromContext(ctx)

	if res := s.requireAPIKey(); res != nil {
		return res, nil
	}

	message, err := validateRequiredString(req, "message")
	if err != nil {
		logger.Error("Invalid chat request: %v", err)
		return createErrorResult(fmt.Sprintf("Error: %v", err)), nil
	}

	model := extractArgumentString(req, "model", s.config.GeminiModel)
	if err := ValidateModelID(model); err != nil {
		logger.Error("Invalid model requested: %v", err)
		return createErrorResult(fmt.Sprintf("Error: %v", err)), nil
	}

	temperature := extractArgumentFloat(req, "temperature", s.config.GeminiTemperature)
	if temperature < 0.0 || temperature > 1.0 {
		return createErrorResult(fmt.Sprintf("Error: temperature must be between 0.0 and 1.0, got %v", temperature)), nil
	}

	maxTokens := extractArgumentInt(req, "max_tokens", s.config.GeminiMaxTokens)
	if maxTokens < 1 || maxTokens > 8192 {
		return createErrorResult(fmt.Sprintf("Error: max_tokens must be between 1 and 8192, got %d", maxTokens)), nil
	}

	systemPrompt := extractArgumentString(req, "system_prompt", s.config.GeminiSystemPrompt)

	logger.Info("Calling Gemini %s with message: %s", model, truncateForLog(message, 100))

	genReq := s.buildChatRequest(message, systemPrompt, temperature, maxTokens)

	resp, err := s.client.GenerateContent(ctx, model, genReq)
	if err != nil {
		return upstreamErrorResult(logger, err), nil
	}

	return createTextResult(Translate(resp).Render()), nil
}

// buildChatRequest constructs the upstream conversation and generation
// parameters for a chat call.
func (s *GeminiServer) buildChatRequest(message, systemPrompt string, temperature float64, maxTokens int) *GenerateContentRequest {
	var contents []Content
	if systemPrompt != "" {
		contents = append(contents,
			Content{Role: roleUser, Parts: []Part{{Text: systemPrompt}}},
			Content{Role: roleModel, Parts: []Part{{Text: systemPromptAck}}},
		)
	}
	contents = append(contents, Content{Role: roleUser, Parts: []Part{{Text: message}}})

	topP := s.config.GeminiTopP
	topK := s.config.GeminiTopK

	return &GenerateContentRequest{
		Contents: contents,
		GenerationConfig: &GenerationConfig{
			Temperature:     &temperature,
			MaxOutputTokens: maxTokens,
			TopP:            &topP,
			TopK:            &topK,
		},
		SafetySettings: s.config.SafetySettings(),
	}
}

// upstreamErrorResult converts a failed upstream call into a descriptive
// text result. Nothing is retried; the caller may re-invoke the tool.
func upstreamErrorResult(logger Logger, err error) *mcp.CallToolResult {
	logger.Error("Error calling Gemini: %v", err)
	return createErrorResult(fmt.Sprintf("Error generating response: %v", err))
}

// truncateForLog shortens a string for log output
func truncateForLog(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
