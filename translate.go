package main

import (
	"fmt"
	"strings"
)

// ResultKind discriminates the possible outcomes of a generation call
type ResultKind int

const (
	// ResultSuccess carries the generated text
	ResultSuccess ResultKind = iota
	// ResultBlocked means the prompt was rejected before generation
	ResultBlocked
	// ResultFiltered means the output was cut short or removed during generation
	ResultFiltered
	// ResultEmpty means the response contained no extractable text
	ResultEmpty
)

// UpstreamResult is the decoded outcome of a generation call. Exactly one
// variant applies; Render turns it into the user-facing text.
type UpstreamResult struct {
	Kind         ResultKind
	Text         string
	BlockReason  string
	FinishReason FinishReason
}

// emptyResponseText is the fixed fallback for responses with no text.
// It distinguishes "the model said nothing" from a silent failure.
const emptyResponseText = "Error: No response generated"

// finishReasonText maps finish reason codes to their explanations
var finishReasonText = map[FinishReason]string{
	FinishStop:        "STOP - Natural ending",
	FinishSafety:      "SAFETY - Content was filtered",
	FinishMaxTokens:   "MAX_TOKENS - Hit token limit",
	FinishUnspecified: "UNSPECIFIED",
	FinishOther:       "OTHER",
}

// Translate decodes an upstream response into exactly one UpstreamResult
// variant. The precedence is a contract: prompt-level block indicator first,
// then the first candidate's finish reason, then text extraction, then the
// empty fallback.
func Translate(resp *GenerateContentResponse) UpstreamResult {
	if resp == nil {
		return UpstreamResult{Kind: ResultEmpty}
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return UpstreamResult{Kind: ResultBlocked, BlockReason: resp.PromptFeedback.BlockReason}
	}

	if len(resp.Candidates) == 0 {
		return UpstreamResult{Kind: ResultEmpty}
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason != FinishReasonUnset && candidate.FinishReason != FinishStop {
		return UpstreamResult{Kind: ResultFiltered, FinishReason: candidate.FinishReason}
	}

	if candidate.Content != nil {
		var sb strings.Builder
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		if sb.Len() > 0 {
			return UpstreamResult{Kind: ResultSuccess, Text: sb.String()}
		}
	}

	return UpstreamResult{Kind: ResultEmpty}
}

// Render returns the user-facing text for the result
func (r UpstreamResult) Render() string {
	switch r.Kind {
	case ResultBlocked:
		return fmt.Sprintf("Response was blocked by safety filters. Reason: %s. "+
			"Try rephrasing your query or using different parameters.", r.BlockReason)
	case ResultFiltered:
		reason, ok := finishReasonText[r.FinishReason]
		if !ok {
			reason = fmt.Sprintf("Unknown reason: %d", r.FinishReason)
		}
		return fmt.Sprintf("Response was filtered. Finish reason: %s\n\n"+
			"Try:\n1. Rephrasing your query\n2. Using a different model\n3. Adjusting temperature settings", reason)
	case ResultEmpty:
		return emptyResponseText
	default:
		return r.Text
	}
}
