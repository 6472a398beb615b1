package main

import "github.com/mark3labs/mcp-go/mcp"

// GeminiChatTool defines the gemini_chat tool specification
var GeminiChatTool = mcp.NewTool(
	"gemini_chat",
	mcp.WithDescription("Chat with Google Gemini models"),
	mcp.WithString("message", mcp.Required(), mcp.Description("The message to send")),
	mcp.WithString("model",
		mcp.Description("Model to use"),
		mcp.DefaultString(defaultGeminiModel),
		mcp.Enum(ModelIDs()...),
	),
	mcp.WithNumber("temperature",
		mcp.Description("Controls randomness (0.0 to 1.0)"),
		mcp.DefaultNumber(defaultGeminiTemperature),
		mcp.Min(0.0),
		mcp.Max(1.0),
	),
	mcp.WithNumber("max_tokens",
		mcp.Description("Maximum tokens in response"),
		mcp.DefaultNumber(defaultGeminiMaxTokens),
		mcp.Min(1),
		mcp.Max(8192),
	),
	mcp.WithString("system_prompt", mcp.Description("Optional system instruction")),
)

// GeminiAnalyzeImageTool defines the gemini_analyze_image tool specification
var GeminiAnalyzeImageTool = mcp.NewTool(
	"gemini_analyze_image",
	mcp.WithDescription("Analyze an image using Gemini's vision capabilities"),
	mcp.WithString("image_url", mcp.Required(), mcp.Description("URL of the image to analyze")),
	mcp.WithString("prompt",
		mcp.Description("Question or instruction about the image"),
		mcp.DefaultString("What's in this image?"),
	),
	mcp.WithString("model",
		mcp.Description("Model to use (must support vision)"),
		mcp.DefaultString(defaultGeminiModel),
		mcp.Enum(VisionModelIDs()...),
	),
)

// GeminiListModelsTool defines the gemini_list_models tool specification
var GeminiListModelsTool = mcp.NewTool(
	"gemini_list_models",
	mcp.WithDescription("List available Gemini models and their capabilities"),
)

// GeminiCountTokensTool defines the gemini_count_tokens tool specification
var GeminiCountTokensTool = mcp.NewTool(
	"gemini_count_tokens",
	mcp.WithDescription("Count the tokens a message would consume for a given model"),
	mcp.WithString("message", mcp.Required(), mcp.Description("The text to count tokens for")),
	mcp.WithString("model",
		mcp.Description("Model whose tokenizer to use"),
		mcp.DefaultString(defaultGeminiModel),
		mcp.Enum(ModelIDs()...),
	),
)
