package llm

import (
	"context"
	"fmt"
	"log/slog"

	"phrasecast/internal/phrases"
)

// StubClient implements phrases.Translator with deterministic output for development.
type StubClient struct {
	logger *slog.Logger
}

// NewStubClient returns a stubbed translation client.
func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger}
}

// Translate returns a canned French rendering of the source phrase.
func (s *StubClient) Translate(ctx context.Context, sourceText string) (phrases.Translation, error) {
	s.logger.Debug("stub translation",
		slog.Int("source_length", len(sourceText)),
	)

	return phrases.Translation{
		Text:     fmt.Sprintf("C'est une phrase de test (%d caractères).", len([]rune(sourceText))),
		Phonetic: "セ・ユヌ・フラーズ・ド・テスト",
	}, nil
}
