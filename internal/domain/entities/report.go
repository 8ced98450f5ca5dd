package entities

import "time"

const (
	// NoTextFound replaces the extracted text when OCR returns no annotations.
	NoTextFound = "No text found."

	// NoSummaryResult replaces the summary when the generator returns no text.
	NoSummaryResult = "No result"
)

// ReportAnalysis is the outcome of analysing one report image.
type ReportAnalysis struct {
	SessionID       string          `json:"session_id"`
	ExtractedText   string          `json:"extracted_text"`
	Summary         string          `json:"summary"`
	Category        DiseaseCategory `json:"category"`
	Specialty       Specialty       `json:"specialty"`
	SearchTriggered bool            `json:"search_triggered"`
	DoctorSearchID  string          `json:"doctor_search_id,omitempty"`
	AnalyzedAt      time.Time       `json:"analyzed_at"`
}
