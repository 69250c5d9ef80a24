package phrases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200

	audioContentType = "audio/mpeg"
)

// Service orchestrates translation, synthesis, artifact upload, and history.
type Service struct {
	logger      *slog.Logger
	repo        Repository
	translator  Translator
	synthesizer Synthesizer
	store       ObjectStore
	now         func() time.Time
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, repo Repository, translator Translator, synthesizer Synthesizer, store ObjectStore) *Service {
	return &Service{
		logger:      logger,
		repo:        repo,
		translator:  translator,
		synthesizer: synthesizer,
		store:       store,
		now:         time.Now,
	}
}

// CreatePhrase runs the full pipeline for one source phrase: translate,
// synthesize, upload, then record history. Translation, synthesis, and upload
// failures abort the request; a history insert failure does not — the caller
// still gets the translation and audio URL, just without an id.
func (s *Service) CreatePhrase(ctx context.Context, sourceText string) (PhraseResult, error) {
	sourceText = strings.TrimSpace(sourceText)
	if sourceText == "" {
		return PhraseResult{}, fmt.Errorf("%w: jp is required", ErrInvalidInput)
	}

	translation, err := s.translator.Translate(ctx, sourceText)
	if err != nil {
		return PhraseResult{}, fmt.Errorf("%w: %v", ErrTranslationFailed, err)
	}
	if strings.TrimSpace(translation.Text) == "" {
		return PhraseResult{}, ErrTranslationFailed
	}

	audio, err := s.synthesizer.Synthesize(ctx, translation.Text)
	if err != nil {
		return PhraseResult{}, fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}

	objectName := buildObjectName(translation.Text, s.now())
	if err := s.store.Upload(ctx, objectName, audio, audioContentType); err != nil {
		return PhraseResult{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	audioURL := s.store.PublicURL(objectName)

	result := PhraseResult{
		TranslatedText: translation.Text,
		PhoneticHint:   translation.Phonetic,
		AudioURL:       audioURL,
	}

	// Best effort: the artifact is already stored, so a failed insert only
	// loses the history entry, not the user's result.
	id, createdAt, err := s.repo.Insert(ctx, PhraseRecord{
		SourceText:     sourceText,
		TranslatedText: translation.Text,
		PhoneticHint:   translation.Phonetic,
		AudioURL:       audioURL,
	})
	if err != nil {
		s.logger.Warn("history insert failed",
			slog.String("object", objectName),
			slog.String("error", err.Error()),
		)
		return result, nil
	}

	result.ID = &id
	result.CreatedAt = &createdAt
	return result, nil
}

// ListHistory returns recent phrase records, newest first. The limit is
// defaulted to 50 and clamped into [1, 200] to bound store scans.
func (s *Service) ListHistory(ctx context.Context, limit int) ([]PhraseRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// DeleteHistory removes one phrase record. Deleting an absent id succeeds.
func (s *Service) DeleteHistory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	return nil
}
