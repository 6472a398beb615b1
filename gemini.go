package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Conversation roles accepted by the generateContent endpoint
const (
	roleUser  = "user"
	roleModel = "model"
)

// Content is one conversation turn
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is one piece of a turn: text or inline binary data
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Blob carries base64-encoded bytes with their MIME type
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// GenerationConfig holds per-request generation parameters
type GenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	TopK            *int     `json:"topK,omitempty"`
}

// SafetySetting controls upstream content filtering for one harm category
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// GenerateContentRequest is the request body for models/{model}:generateContent
type GenerateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
	SafetySettings   []SafetySetting   `json:"safetySettings,omitempty"`
}

// GenerateContentResponse is the response body for generateContent
type GenerateContentResponse struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
}

// Candidate is one generated output alternative
type Candidate struct {
	Content      *Content     `json:"content,omitempty"`
	FinishReason FinishReason `json:"finishReason,omitempty"`
}

// PromptFeedback reports prompt-level blocking, before any generation
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// FinishReason explains why generation stopped for a candidate
type FinishReason int

// Finish reason codes. The REST API serializes these as enum strings while
// older clients used the numeric protobuf values; UnmarshalJSON accepts both.
const (
	FinishReasonUnset FinishReason = 0
	FinishStop        FinishReason = 1
	FinishSafety      FinishReason = 2
	FinishMaxTokens   FinishReason = 3
	FinishUnspecified FinishReason = 4
	FinishOther       FinishReason = 5
)

// UnmarshalJSON decodes a finish reason from either a JSON number or the
// REST enum string.
func (f *FinishReason) UnmarshalJSON(data []byte) error {
	var num int
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FinishReason(num)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid finish reason %s: %w", data, err)
	}

	switch s {
	case "", "FINISH_REASON_UNSPECIFIED":
		*f = FinishUnspecified
	case "STOP":
		*f = FinishStop
	case "SAFETY":
		*f = FinishSafety
	case "MAX_TOKENS":
		*f = FinishMaxTokens
	default:
		*f = FinishOther
	}
	return nil
}

// CountTokensRequest is the request body for models/{model}:countTokens
type CountTokensRequest struct {
	Contents []Content `json:"contents"`
}

// CountTokensResponse is the response body for countTokens
type CountTokensResponse struct {
	TotalTokens int `json:"totalTokens"`
}

// ModelEntry describes one model returned by the models list endpoint
type ModelEntry struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	Description                string   `json:"description"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	InputTokenLimit            int      `json:"inputTokenLimit"`
	OutputTokenLimit           int      `json:"outputTokenLimit"`
}

// modelListResponse is the paged response body for the models list endpoint
type modelListResponse struct {
	Models        []ModelEntry `json:"models"`
	NextPageToken string       `json:"nextPageToken"`
}

// APIError is a non-2xx response from the upstream API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// GeminiClient is a JSON-over-HTTPS client for the Generative Language API.
// The base URL is configurable so tests can point it at a local stub.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient creates a client for the given endpoint and key
func NewGeminiClient(apiKey, baseURL string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GenerateContent calls models/{model}:generateContent
func (c *GeminiClient) GenerateContent(ctx context.Context, model string, req *GenerateContentRequest) (*GenerateContentResponse, error) {
	var resp GenerateContentResponse
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(model))
	if err := c.post(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CountTokens calls models/{model}:countTokens
func (c *GeminiClient) CountTokens(ctx context.Context, model string, req *CountTokensRequest) (*CountTokensResponse, error) {
	var resp CountTokensResponse
	path := fmt.Sprintf("/models/%s:countTokens", url.PathEscape(model))
	if err := c.post(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListModels retrieves the full model list, following pagination
func (c *GeminiClient) ListModels(ctx context.Context) ([]ModelEntry, error) {
	var models []ModelEntry
	pageToken := ""

	for {
		path := "/models"
		if pageToken != "" {
			path += "?pageToken=" + url.QueryEscape(pageToken)
		}

		var page modelListResponse
		if err := c.get(ctx, path, &page); err != nil {
			return nil, err
		}
		models = append(models, page.Models...)

		if page.NextPageToken == "" {
			return models, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *GeminiClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *GeminiClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, out)
}

func (c *GeminiClient) do(req *http.Request, out interface{}) error {
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to Gemini API failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
