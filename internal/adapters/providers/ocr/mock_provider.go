package ocr

import (
	"context"

	"github.com/docify/docify/internal/domain/providers"
)

// MockOCRProvider returns fixed text for offline runs
type MockOCRProvider struct {
	Text string
}

// NewMockOCRProvider creates a mock OCR provider
func NewMockOCRProvider() providers.OCRProvider {
	return &MockOCRProvider{Text: "Patient shows mild asthma. Continue inhaler twice daily."}
}

// ExtractText returns the configured text
func (m *MockOCRProvider) ExtractText(ctx context.Context, image []byte) (string, error) {
	return m.Text, nil
}
