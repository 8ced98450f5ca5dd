package providers

import "context"

// GenerationRequest describes one text generation call.
type GenerationRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
	// JSON asks the generator for a JSON object when it supports that hint.
	JSON bool
	// Schema and SchemaName describe the expected object for generators that
	// support structured output. Ignored by the others.
	Schema     any
	SchemaName string
}

// TextGenerator defines an external text-generation service.
// An empty string with a nil error means the response carried no text.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
