package main

import (
	"fmt"
	"strings"
)

// GeminiModelInfo holds information about a Gemini model
type GeminiModelInfo struct {
	ID               string `json:"id"`
	Description      string `json:"description"`
	SupportsVision   bool   `json:"supports_vision"`    // Whether this model accepts inline image input
	InputTokenLimit  int    `json:"input_token_limit"`  // Maximum input size in tokens
	OutputTokenLimit int    `json:"output_token_limit"` // Maximum output size in tokens
}

// geminiModels is the fixed set of models this server accepts. Requests
// naming anything else are rejected before any upstream call.
var geminiModels = []GeminiModelInfo{
	{
		ID:               "gemini-2.5-flash",
		Description:      "Latest Gemini 2.5 Flash - Fast, versatile performance",
		SupportsVision:   true,
		InputTokenLimit:  1048576,
		OutputTokenLimit: 65536,
	},
	{
		ID:               "gemini-2.0-flash",
		Description:      "Gemini 2.0 Flash - Fast, efficient model",
		SupportsVision:   true,
		InputTokenLimit:  1048576,
		OutputTokenLimit: 8192,
	},
	{
		ID:               "gemini-1.5-flash",
		Description:      "Gemini 1.5 Flash - Fast, efficient model",
		SupportsVision:   true,
		InputTokenLimit:  1048576,
		OutputTokenLimit: 8192,
	},
	{
		ID:               "gemini-1.5-pro",
		Description:      "Gemini 1.5 Pro - Advanced reasoning",
		SupportsVision:   true,
		InputTokenLimit:  2097152,
		OutputTokenLimit: 8192,
	},
	{
		ID:               "gemini-pro",
		Description:      "Gemini Pro - Balanced performance",
		SupportsVision:   false,
		InputTokenLimit:  30720,
		OutputTokenLimit: 2048,
	},
	{
		ID:               "gemini-pro-vision",
		Description:      "Gemini Pro Vision - Multimodal understanding",
		SupportsVision:   true,
		InputTokenLimit:  12288,
		OutputTokenLimit: 4096,
	},
}

// ModelIDs returns the IDs of all known models in declaration order
func ModelIDs() []string {
	ids := make([]string, 0, len(geminiModels))
	for _, m := range geminiModels {
		ids = append(ids, m.ID)
	}
	return ids
}

// VisionModelIDs returns the IDs of models that accept image input
func VisionModelIDs() []string {
	var ids []string
	for _, m := range geminiModels {
		if m.SupportsVision {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// GetModelByID returns model information for the given ID, or nil if unknown
func GetModelByID(id string) *GeminiModelInfo {
	for i := range geminiModels {
		if geminiModels[i].ID == id {
			return &geminiModels[i]
		}
	}
	return nil
}

// ValidateModelID checks that the given ID names a known model. The error
// message enumerates the valid IDs so callers can correct the request.
func ValidateModelID(id string) error {
	if GetModelByID(id) != nil {
		return nil
	}
	return fmt.Errorf("unknown model %q. Valid models are: %s", id, strings.Join(ModelIDs(), ", "))
}

// ValidateVisionModelID checks that the given ID names a model that accepts
// image input.
func ValidateVisionModelID(id string) error {
	model := GetModelByID(id)
	if model == nil {
		return fmt.Errorf("unknown model %q. Vision-capable models are: %s", id, strings.Join(VisionModelIDs(), ", "))
	}
	if !model.SupportsVision {
		return fmt.Errorf("model %q does not support image input. Vision-capable models are: %s", id, strings.Join(VisionModelIDs(), ", "))
	}
	return nil
}
