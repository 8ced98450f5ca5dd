package services

import (
	"context"
	"strings"
	"time"

	"github.com/docify/docify/internal/domain/entities"
	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/infrastructure/observability"
	apperrors "github.com/docify/docify/pkg/errors"
)

// GenerationSettings are passed to the text generator on every call.
type GenerationSettings struct {
	MaxTokens   int
	Temperature float64
}

// MedicineDescription is a generated medicine record ready for display.
type MedicineDescription struct {
	Name   string                       `json:"name"`
	Record *entities.MedicineRecord     `json:"record"`
	Fields []entities.MedicineFieldView `json:"fields"`
}

// MedicineService describes medicines through the text generator.
type MedicineService struct {
	generator providers.TextGenerator
	settings  GenerationSettings
}

// NewMedicineService creates a new medicine service
func NewMedicineService(generator providers.TextGenerator, settings GenerationSettings) *MedicineService {
	return &MedicineService{generator: generator, settings: settings}
}

// DescribeMedicine asks the generator for a structured record about name.
// An empty name fails validation before any call is made.
func (s *MedicineService) DescribeMedicine(ctx context.Context, name string) (*MedicineDescription, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("medicine name is required")
	}

	ctx, span := observability.StartSpan(ctx, "MedicineService.DescribeMedicine")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)
	start := time.Now()

	text, err := s.generator.Generate(ctx, providers.GenerationRequest{
		Prompt:      BuildMedicinePrompt(name),
		MaxTokens:   s.settings.MaxTokens,
		Temperature: s.settings.Temperature,
		JSON:        true,
		Schema:      entities.MedicineRecordSchema,
		SchemaName:  entities.MedicineRecordSchemaName,
	})
	if err != nil {
		observability.RecordStage(ctx, "describe", time.Since(start), err)
		observability.RecordError(span, err)
		logger.Error().Err(err).Str("medicine", name).Msg("Medicine generation failed")
		return nil, apperrors.NewExternalError("error occurred during generation", err)
	}
	if strings.TrimSpace(text) == "" {
		err := apperrors.NewExternalError("error occurred during generation", nil)
		observability.RecordStage(ctx, "describe", time.Since(start), err)
		logger.Warn().Str("medicine", name).Msg("Medicine generation returned no text")
		return nil, err
	}

	record, err := entities.ParseMedicineRecord(text)
	observability.RecordStage(ctx, "describe", time.Since(start), err)
	if err != nil {
		observability.RecordError(span, err)
		logger.Warn().Err(err).Str("medicine", name).Int("text_length", len(text)).Msg("Generated medicine record is not valid JSON")
		return nil, err
	}

	return &MedicineDescription{
		Name:   name,
		Record: record,
		Fields: record.Fields(),
	}, nil
}

// PresetMedicines returns the medicine names offered as quick picks.
func (s *MedicineService) PresetMedicines() []string {
	return append([]string(nil), entities.PresetMedicineNames...)
}
