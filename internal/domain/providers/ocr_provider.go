package providers

import "context"

// OCRProvider extracts text from an image.
type OCRProvider interface {
	// ExtractText returns the full detected text, or an empty string when the
	// service found none. Transport and HTTP failures are returned as errors.
	ExtractText(ctx context.Context, image []byte) (string, error)
}
