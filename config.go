package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default configuration values
const (
	// Note: if this value changes, make sure to update the models.go list
	defaultGeminiModel       = "gemini-2.5-flash"
	defaultGeminiTemperature = 0.7
	defaultGeminiMaxTokens   = 2048
	defaultGeminiTopP        = 0.95
	defaultGeminiTopK        = 40

	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// defaultSafetyThreshold disables upstream content blocking so that
	// filtering decisions surface in the response instead of an opaque block.
	defaultSafetyThreshold = "BLOCK_NONE"

	defaultHTTPAddress = ":8080"
	defaultHTTPPath    = "/mcp"
)

// harmCategories are the categories a safety threshold applies to
var harmCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

// validSafetyThresholds are the threshold values the upstream API accepts
var validSafetyThresholds = []string{
	"BLOCK_NONE",
	"BLOCK_ONLY_HIGH",
	"BLOCK_MEDIUM_AND_ABOVE",
	"BLOCK_LOW_AND_ABOVE",
}

// Config holds all configuration parameters for the application
type Config struct {
	// Gemini API settings
	GeminiAPIKey       string
	GeminiModel        string
	GeminiSystemPrompt string
	GeminiTemperature  float64
	GeminiMaxTokens    int
	GeminiTopP         float64
	GeminiTopK         int
	GeminiBaseURL      string
	SafetyThreshold    string

	// HTTP client settings
	HTTPTimeout time.Duration

	// HTTP transport settings
	HTTPAddress     string
	HTTPPath        string
	HTTPHeartbeat   time.Duration
	HTTPStateless   bool
	HTTPCORSEnabled bool
	HTTPCORSOrigins []string

	// Authentication settings
	AuthEnabled   bool
	AuthSecretKey string
}

// NewConfig creates a new configuration from environment variables.
// A missing GEMINI_API_KEY is not an error here: the server starts anyway
// and every tool call reports the missing key instead.
func NewConfig() (*Config, error) {
	if err := ValidateModelID(defaultGeminiModel); err != nil {
		return nil, fmt.Errorf("default model is not valid: %w", err)
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = defaultGeminiModel
	} else if err := ValidateModelID(geminiModel); err != nil {
		return nil, fmt.Errorf("invalid GEMINI_MODEL environment variable: %w", err)
	}

	geminiSystemPrompt := os.Getenv("GEMINI_SYSTEM_PROMPT")

	geminiTemperature := float64(defaultGeminiTemperature)
	if tempStr := os.Getenv("GEMINI_TEMPERATURE"); tempStr != "" {
		tempVal, err := strconv.ParseFloat(tempStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid GEMINI_TEMPERATURE value: %v", err)
		}
		if tempVal < 0.0 || tempVal > 1.0 {
			return nil, fmt.Errorf("GEMINI_TEMPERATURE must be between 0.0 and 1.0, got %v", tempVal)
		}
		geminiTemperature = tempVal
	}

	geminiMaxTokens := defaultGeminiMaxTokens
	if tokensStr := os.Getenv("GEMINI_MAX_TOKENS"); tokensStr != "" {
		tokens, err := strconv.Atoi(tokensStr)
		if err != nil {
			return nil, fmt.Errorf("invalid GEMINI_MAX_TOKENS value: %v", err)
		}
		if tokens < 1 || tokens > 8192 {
			return nil, fmt.Errorf("GEMINI_MAX_TOKENS must be between 1 and 8192, got %d", tokens)
		}
		geminiMaxTokens = tokens
	}

	geminiTopP := float64(defaultGeminiTopP)
	if topPStr := os.Getenv("GEMINI_TOP_P"); topPStr != "" {
		if topP, err := strconv.ParseFloat(topPStr, 64); err == nil && topP > 0 && topP <= 1.0 {
			geminiTopP = topP
		}
	}

	geminiTopK := defaultGeminiTopK
	if topKStr := os.Getenv("GEMINI_TOP_K"); topKStr != "" {
		if topK, err := strconv.Atoi(topKStr); err == nil && topK > 0 {
			geminiTopK = topK
		}
	}

	geminiBaseURL := os.Getenv("GEMINI_BASE_URL")
	if geminiBaseURL == "" {
		geminiBaseURL = defaultGeminiBaseURL
	}

	safetyThreshold := defaultSafetyThreshold
	if thresholdStr := os.Getenv("GEMINI_SAFETY_THRESHOLD"); thresholdStr != "" {
		threshold := strings.ToUpper(thresholdStr)
		valid := false
		for _, v := range validSafetyThresholds {
			if threshold == v {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("invalid GEMINI_SAFETY_THRESHOLD %q, must be one of: %s",
				thresholdStr, strings.Join(validSafetyThresholds, ", "))
		}
		safetyThreshold = threshold
	}

	// Default timeout of 90 seconds
	timeout := 90 * time.Second
	if timeoutStr := os.Getenv("GEMINI_TIMEOUT"); timeoutStr != "" {
		if timeoutSec, err := strconv.Atoi(timeoutStr); err == nil && timeoutSec > 0 {
			timeout = time.Duration(timeoutSec) * time.Second
		}
	}

	httpAddress := os.Getenv("GEMINI_HTTP_ADDRESS")
	if httpAddress == "" {
		httpAddress = defaultHTTPAddress
	}

	httpPath := os.Getenv("GEMINI_HTTP_PATH")
	if httpPath == "" {
		httpPath = defaultHTTPPath
	}

	var httpHeartbeat time.Duration
	if heartbeatStr := os.Getenv("GEMINI_HTTP_HEARTBEAT"); heartbeatStr != "" {
		if heartbeatSec, err := strconv.Atoi(heartbeatStr); err == nil && heartbeatSec > 0 {
			httpHeartbeat = time.Duration(heartbeatSec) * time.Second
		}
	}

	httpStateless := false
	if statelessStr := os.Getenv("GEMINI_HTTP_STATELESS"); statelessStr != "" {
		httpStateless = strings.ToLower(statelessStr) == "true"
	}

	httpCORSEnabled := false
	if corsStr := os.Getenv("GEMINI_HTTP_CORS_ENABLED"); corsStr != "" {
		httpCORSEnabled = strings.ToLower(corsStr) == "true"
	}

	httpCORSOrigins := []string{"*"}
	if originsStr := os.Getenv("GEMINI_HTTP_CORS_ORIGINS"); originsStr != "" {
		httpCORSOrigins = strings.Split(originsStr, ",")
	}

	authEnabled := false
	if authStr := os.Getenv("GEMINI_AUTH_ENABLED"); authStr != "" {
		authEnabled = strings.ToLower(authStr) == "true"
	}

	authSecretKey := os.Getenv("GEMINI_AUTH_SECRET_KEY")
	if authEnabled && authSecretKey == "" {
		return nil, fmt.Errorf("GEMINI_AUTH_SECRET_KEY is required when GEMINI_AUTH_ENABLED is true")
	}

	return &Config{
		GeminiAPIKey:       geminiAPIKey,
		GeminiModel:        geminiModel,
		GeminiSystemPrompt: geminiSystemPrompt,
		GeminiTemperature:  geminiTemperature,
		GeminiMaxTokens:    geminiMaxTokens,
		GeminiTopP:         geminiTopP,
		GeminiTopK:         geminiTopK,
		GeminiBaseURL:      geminiBaseURL,
		SafetyThreshold:    safetyThreshold,
		HTTPTimeout:        timeout,
		HTTPAddress:        httpAddress,
		HTTPPath:           httpPath,
		HTTPHeartbeat:      httpHeartbeat,
		HTTPStateless:      httpStateless,
		HTTPCORSEnabled:    httpCORSEnabled,
		HTTPCORSOrigins:    httpCORSOrigins,
		AuthEnabled:        authEnabled,
		AuthSecretKey:      authSecretKey,
	}, nil
}

// SafetySettings returns the per-category safety settings attached to every
// generation request, using the configured threshold.
func (c *Config) SafetySettings() []SafetySetting {
	settings := make([]SafetySetting, 0, len(harmCategories))
	for _, category := range harmCategories {
		settings = append(settings, SafetySetting{
			Category:  category,
			Threshold: c.SafetyThreshold,
		})
	}
	return settings
}
