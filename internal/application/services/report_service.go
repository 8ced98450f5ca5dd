package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/docify/docify/internal/domain/entities"
	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/domain/repositories"
	"github.com/docify/docify/internal/infrastructure/observability"
	apperrors "github.com/docify/docify/pkg/errors"
)

const (
	defaultMaxImageBytes = 10 << 20
	defaultSearchTimeout = 20 * time.Second
)

// ReportServiceConfig holds report pipeline settings.
type ReportServiceConfig struct {
	MaxImageBytes int64
	// SearchTimeout bounds each detached doctor search.
	SearchTimeout time.Duration
	Generation    GenerationSettings
}

// AnalysisResult is the outcome of the OCR, summarise and classify stages.
type AnalysisResult struct {
	ExtractedText   string
	Summary         string
	Category        entities.DiseaseCategory
	Specialty       entities.Specialty
	SearchTriggered bool
}

// ReportService turns report images into summaries and keeps each session's
// doctor search in step with the detected category.
type ReportService struct {
	ocr       providers.OCRProvider
	generator providers.TextGenerator
	sessions  repositories.SessionRepository
	doctors   *DoctorSearchService
	events    providers.EventBus
	cfg       ReportServiceConfig

	locks    *sessionLocks
	searches sync.WaitGroup
	now      func() time.Time
}

// NewReportService creates a new report service. events may be nil.
func NewReportService(
	ocr providers.OCRProvider,
	generator providers.TextGenerator,
	sessions repositories.SessionRepository,
	doctors *DoctorSearchService,
	events providers.EventBus,
	cfg ReportServiceConfig,
) *ReportService {
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = defaultMaxImageBytes
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = defaultSearchTimeout
	}
	return &ReportService{
		ocr:       ocr,
		generator: generator,
		sessions:  sessions,
		doctors:   doctors,
		events:    events,
		cfg:       cfg,
		locks:     newSessionLocks(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// AnalyzeReport runs the report pipeline for one session. When the detected
// category differs from the session memo a doctor search is started in the
// background; its outcome is stored on the session and published as events.
func (s *ReportService) AnalyzeReport(ctx context.Context, sessionID string, image []byte, location providers.LocationSource) (*entities.ReportAnalysis, error) {
	if err := s.validateImage(image); err != nil {
		return nil, err
	}

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	ctx, span := observability.StartSpan(ctx, "ReportService.AnalyzeReport")
	defer span.End()
	observability.SetSpanAttributes(span, attribute.String("session.id", sessionID))

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.loadOrCreateSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.Analyze(ctx, image, session.LastCategory)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	now := s.now()
	analysis := &entities.ReportAnalysis{
		SessionID:       session.ID,
		ExtractedText:   result.ExtractedText,
		Summary:         result.Summary,
		Category:        result.Category,
		Specialty:       result.Specialty,
		SearchTriggered: result.SearchTriggered,
		AnalyzedAt:      now,
	}

	var search *entities.DoctorSearch
	if session.NeedsSearch(result.Category) {
		search = session.StartSearch(uuid.New().String(), result.Category, result.Specialty, now)
		analysis.DoctorSearchID = search.ID
	}
	session.UpdatedAt = now

	if err := s.sessions.Save(ctx, session); err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewInternalError("failed to save session", err)
	}

	if search != nil {
		s.publish(ctx, session.ID, entities.SessionEventTypeSearchStarted, search)
		s.startDoctorSearch(ctx, session.ID, *search, location)
	}

	return analysis, nil
}

// Analyze runs OCR, summarisation and classification for one image.
// prior is the session memo; an empty prior always triggers a search.
func (s *ReportService) Analyze(ctx context.Context, image []byte, prior entities.DiseaseCategory) (*AnalysisResult, error) {
	logger := observability.LoggerFromContext(ctx)

	ocrCtx, ocrSpan := observability.StartSpan(ctx, "ReportService.ocr")
	start := time.Now()
	text, err := s.ocr.ExtractText(ocrCtx, image)
	observability.RecordStage(ctx, "ocr", time.Since(start), err)
	if err != nil {
		observability.RecordError(ocrSpan, err)
		ocrSpan.End()
		logger.Error().Err(err).Msg("Report text extraction failed")
		return nil, apperrors.NewExternalError("error occurred during text extraction", err)
	}
	ocrSpan.End()
	if strings.TrimSpace(text) == "" {
		text = entities.NoTextFound
	}

	genCtx, genSpan := observability.StartSpan(ctx, "ReportService.summarize")
	start = time.Now()
	summary, err := s.generator.Generate(genCtx, providers.GenerationRequest{
		Prompt:      BuildReportPrompt(text),
		MaxTokens:   s.cfg.Generation.MaxTokens,
		Temperature: s.cfg.Generation.Temperature,
	})
	observability.RecordStage(ctx, "summarize", time.Since(start), err)
	if err != nil {
		observability.RecordError(genSpan, err)
		logger.Error().Err(err).Msg("Report summarisation failed, using fallback")
		summary = ""
	}
	genSpan.End()
	if strings.TrimSpace(summary) == "" {
		summary = entities.NoSummaryResult
	}

	start = time.Now()
	category := entities.ClassifyDisease(summary)
	specialty := entities.ResolveSpecialty(category)
	observability.RecordStage(ctx, "classify", time.Since(start), nil)
	observability.RecordClassification(ctx, string(category))

	logger.Info().
		Str("category", string(category)).
		Str("prior_category", string(prior)).
		Str("specialty", string(specialty)).
		Msg("Report classified")

	return &AnalysisResult{
		ExtractedText:   text,
		Summary:         summary,
		Category:        category,
		Specialty:       specialty,
		SearchTriggered: category != prior,
	}, nil
}

// Session returns the current state of a session.
func (s *ReportService) Session(ctx context.Context, sessionID string) (*entities.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

// DeleteSession discards a session. Searches still running for it find no
// session on completion and drop their results.
func (s *ReportService) DeleteSession(ctx context.Context, sessionID string) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, sessionID)
}

// Wait blocks until all background doctor searches have finished.
func (s *ReportService) Wait() {
	s.searches.Wait()
}

func (s *ReportService) validateImage(image []byte) error {
	if len(image) == 0 {
		return apperrors.NewValidationError("report image is required")
	}
	if int64(len(image)) > s.cfg.MaxImageBytes {
		return apperrors.NewValidationError(fmt.Sprintf("report image exceeds %d bytes", s.cfg.MaxImageBytes))
	}
	if !acceptedImageType(mimetype.Detect(image)) {
		return apperrors.NewValidationError("report file is not an image")
	}
	return nil
}

// acceptedImageType admits any image type and anything the detector cannot
// identify; OCR decides on the latter. Recognised non-image formats are rejected.
func acceptedImageType(detected *mimetype.MIME) bool {
	if detected.Is("application/octet-stream") {
		return true
	}
	for m := detected; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}

func (s *ReportService) loadOrCreateSession(ctx context.Context, sessionID string) (*entities.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err == nil {
		return session, nil
	}
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return entities.NewSession(sessionID, s.now()), nil
	}
	return nil, apperrors.NewInternalError("failed to load session", err)
}

func (s *ReportService) startDoctorSearch(ctx context.Context, sessionID string, search entities.DoctorSearch, location providers.LocationSource) {
	// Keep trace values but not the request deadline.
	searchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.SearchTimeout)

	s.searches.Add(1)
	go func() {
		defer s.searches.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				observability.LoggerFromContext(searchCtx).Error().
					Interface("panic", r).
					Str("session_id", sessionID).
					Str("search_id", search.ID).
					Msg("Doctor search panicked")
				s.completeSearch(searchCtx, sessionID, search, entities.DoctorSearchStatusFailed, nil, "error fetching doctors")
			}
		}()

		s.runDoctorSearch(searchCtx, sessionID, search, location)
	}()
}

func (s *ReportService) runDoctorSearch(ctx context.Context, sessionID string, search entities.DoctorSearch, location providers.LocationSource) {
	ctx, span := observability.StartSpan(ctx, "ReportService.doctorSearch")
	defer span.End()

	doctors, err := s.doctors.FindNearbyDoctors(ctx, location, search.Specialty)
	status := SearchStatus(doctors, err)
	observability.RecordDoctorSearch(ctx, string(search.Specialty), string(status))

	message := ""
	if err != nil {
		observability.RecordError(span, err)
		message = searchErrorMessage(err)
	}
	s.completeSearch(ctx, sessionID, search, status, doctors, message)
}

// completeSearch stores the outcome only while the session still points at
// the same search.
func (s *ReportService) completeSearch(ctx context.Context, sessionID string, search entities.DoctorSearch, status entities.DoctorSearchStatus, doctors []entities.DoctorListing, message string) {
	logger := observability.LoggerFromContext(ctx).With().
		Str("session_id", sessionID).
		Str("search_id", search.ID).
		Str("status", string(status)).
		Logger()

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		logger.Warn().Err(err).Msg("Doctor search finished for a missing session")
		return
	}
	if !session.OwnsSearch(search.ID) {
		logger.Debug().Msg("Doctor search superseded, dropping result")
		return
	}

	now := s.now()
	session.Search.Complete(status, doctors, message, now)
	session.UpdatedAt = now
	if err := s.sessions.Save(ctx, session); err != nil {
		logger.Error().Err(err).Msg("Failed to save doctor search result")
		return
	}

	logger.Info().Int("doctors", len(session.Search.Doctors)).Msg("Doctor search completed")

	eventType := entities.SessionEventTypeSearchCompleted
	if status == entities.DoctorSearchStatusFailed || status == entities.DoctorSearchStatusLocationUnavailable {
		eventType = entities.SessionEventTypeSearchFailed
	}
	s.publish(ctx, sessionID, eventType, session.Search)
}

func (s *ReportService) publish(ctx context.Context, sessionID string, eventType entities.SessionEventType, search *entities.DoctorSearch) {
	if s.events == nil {
		return
	}
	event := entities.NewSessionEvent(sessionID, eventType, search)
	if err := s.events.Publish(ctx, providers.GetSessionChannel(sessionID), event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("session_id", sessionID).
			Str("event_type", string(eventType)).
			Msg("Failed to publish session event")
	}
}

func searchErrorMessage(err error) string {
	if apperrors.IsType(err, apperrors.ErrorTypeUnavailable) {
		return "location unavailable"
	}
	return "error fetching doctors"
}
