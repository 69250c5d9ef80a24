package phrases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidInput signals missing or malformed caller input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTranslationFailed signals that the provider produced no usable translation.
	ErrTranslationFailed = errors.New("translation failed")

	// ErrSynthesisFailed signals a speech synthesis failure.
	ErrSynthesisFailed = errors.New("synthesis failed")

	// ErrUploadFailed signals an artifact upload failure.
	ErrUploadFailed = errors.New("upload failed")

	// ErrNotFound signals a missing phrase record.
	ErrNotFound = errors.New("phrase not found")
)

// PhraseRecord is one persisted translation with its audio artifact.
type PhraseRecord struct {
	ID             uuid.UUID `json:"id"`
	SourceText     string    `json:"jp"`
	TranslatedText string    `json:"fr"`
	PhoneticHint   string    `json:"kana"`
	AudioURL       string    `json:"audio_url"`
	CreatedAt      time.Time `json:"created_at"`
}

// Translation is the structured reply of the translation provider. Phonetic
// is empty when the provider reply could not be parsed as structured data.
type Translation struct {
	Text     string
	Phonetic string
}

// PhraseResult is returned by CreatePhrase. ID and CreatedAt are nil when the
// history insert failed; the translation and audio are still valid then.
type PhraseResult struct {
	TranslatedText string
	PhoneticHint   string
	AudioURL       string
	ID             *uuid.UUID
	CreatedAt      *time.Time
}

// Translator produces a French translation with a phonetic hint.
type Translator interface {
	Translate(ctx context.Context, sourceText string) (Translation, error)
}

// Synthesizer converts text into spoken MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// ObjectStore persists audio artifacts under unique names. Upload must fail
// rather than overwrite an existing object. PublicURL is a pure derivation
// and returns an empty string when no public base is configured.
type ObjectStore interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) error
	PublicURL(name string) string
}

// Repository defines the persistence contract for phrase history. Insert
// returns the store-assigned id and timestamp.
type Repository interface {
	Insert(ctx context.Context, rec PhraseRecord) (uuid.UUID, time.Time, error)
	List(ctx context.Context, limit int) ([]PhraseRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
