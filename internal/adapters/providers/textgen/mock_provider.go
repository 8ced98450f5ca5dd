package textgen

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/docify/docify/internal/domain/providers"
)

// MockTextGenerator returns canned responses for offline runs
type MockTextGenerator struct{}

// NewMockTextGenerator creates a mock text generator
func NewMockTextGenerator() providers.TextGenerator {
	return &MockTextGenerator{}
}

type mockMedicineRecord struct {
	Uses        string `json:"Uses"`
	Dosage      string `json:"Dosage"`
	SideEffects string `json:"Side Effects"`
	Route       string `json:"Route"`
	Disclaimer  string `json:"Disclaimer"`
}

// Generate returns a canned medicine record for JSON requests and a canned summary otherwise
func (m *MockTextGenerator) Generate(ctx context.Context, req providers.GenerationRequest) (string, error) {
	if !req.JSON {
		return "The report shows mild asthma. Symptoms are not serious. Keep the inhaler close and avoid dust and smoke.", nil
	}

	name := strings.TrimSpace(strings.SplitN(req.Prompt, "\n", 2)[0])
	record, err := json.Marshal(mockMedicineRecord{
		Uses:        "Relief of mild pain and fever (" + name + ")",
		Dosage:      "As directed on the label",
		SideEffects: "Nausea, stomach upset",
		Route:       "Oral",
		Disclaimer:  "Consult a doctor before use.",
	})
	if err != nil {
		return "", err
	}
	return string(record), nil
}
