package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
)

// maxImageSize caps how much image data is downloaded per call
const maxImageSize = 20 * 1024 * 1024

// AnalyzeImageHandler handles the gemini_analyze_image tool
func (s *GeminiServer) AnalyzeImageHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := getLoggerFromContext(ctx)

	if res := s.requireAPIKey(); res != nil {
		return res, nil
	}

	imageURL, err := validateRequiredString(req, "image_url")
	if err != nil {
		logger.Error("Invalid image request: %v", err)
		return createErrorResult(fmt.Sprintf("Error: %v", err)), nil
	}

	prompt := extractArgumentString(req, "prompt", "What's in this image?")

	// The model check comes before the download so an invalid model never
	// costs an image fetch.
	model := extractArgumentString(req, "model", s.config.GeminiModel)
	if err := ValidateVisionModelID(model); err != nil {
		logger.Error("Invalid vision model requested: %v", err)
		return createErrorResult(fmt.Sprintf("Error: %v", err)), nil
	}

	logger.Info("Analyzing image from %s", imageURL)

	imageData, mimeType, err := s.fetchImage(ctx, imageURL)
	if err != nil {
		logger.Error("Error fetching image: %v", err)
		return createErrorResult(fmt.Sprintf("Error analyzing image: %v", err)), nil
	}

	genReq := &GenerateContentRequest{
		Contents: []Content{
			{
				Role: roleUser,
				Parts: []Part{
					{Text: prompt},
					{InlineData: &Blob{
						MIMEType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(imageData),
					}},
				},
			},
		},
		SafetySettings: s.config.SafetySettings(),
	}

	resp, err := s.client.GenerateContent(ctx, model, genReq)
	if err != nil {
		return upstreamErrorResult(logger, err), nil
	}

	return createTextResult(Translate(resp).Render()), nil
}

// fetchImage downloads the image bytes and determines their MIME type from
// the Content-Type header, falling back to content sniffing.
func (s *GeminiServer) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("invalid image URL: %w", err)
	}

	resp, err := s.imageClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("image download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, "", fmt.Errorf("image exceeds maximum size of %d bytes", maxImageSize)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return data, mimeType, nil
}
