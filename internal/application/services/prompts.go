package services

import "strings"

const reportSummaryInstruction = "Interpret this given OCR extracted data into laymen terms. " +
	"Provide a summary in 100 words. Exclude personal data like name, age, and location. " +
	"Also, mention seriousness and precautions. Additionally, detect and mention any disease " +
	"or condition based on the information in the report.\n\n"

const medicineInstruction = "\n\nGenerate a JSON representation of the following details: " +
	"\"Uses\", \"Dosage\", \"Side Effects\", \"Route\", \"Disclaimer\". " +
	"Ensure the response is a valid JSON object and no extra text."

// BuildReportPrompt returns the summarisation prompt for OCR extracted text.
func BuildReportPrompt(extractedText string) string {
	return reportSummaryInstruction + extractedText
}

// BuildMedicinePrompt returns the structured description prompt for a medicine.
func BuildMedicinePrompt(name string) string {
	return strings.TrimSpace(name) + medicineInstruction
}
