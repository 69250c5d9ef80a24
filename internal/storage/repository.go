package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"phrasecast/internal/phrases"
)

// PhraseRepository persists phrase history in PostgreSQL.
type PhraseRepository struct {
	db *sql.DB
}

// NewPhraseRepository creates a new repository.
func NewPhraseRepository(db *sql.DB) *PhraseRepository {
	return &PhraseRepository{db: db}
}

// Insert stores one phrase record. The id and timestamp are assigned by the
// database and returned to the caller.
func (r *PhraseRepository) Insert(ctx context.Context, rec phrases.PhraseRecord) (uuid.UUID, time.Time, error) {
	const insertPhrase = `
		INSERT INTO phrase_logs (jp, fr, kana, audio_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	var (
		id        uuid.UUID
		createdAt time.Time
	)
	if err := r.db.QueryRowContext(ctx, insertPhrase,
		rec.SourceText,
		rec.TranslatedText,
		rec.PhoneticHint,
		rec.AudioURL,
	).Scan(&id, &createdAt); err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("insert phrase: %w", err)
	}

	return id, createdAt, nil
}

// List returns up to limit records, newest first. Ties on created_at are
// broken by id so the ordering is stable.
func (r *PhraseRepository) List(ctx context.Context, limit int) ([]phrases.PhraseRecord, error) {
	const queryPhrases = `
		SELECT id, jp, fr, kana, audio_url, created_at
		FROM phrase_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, queryPhrases, limit)
	if err != nil {
		return nil, fmt.Errorf("select phrases: %w", err)
	}
	defer rows.Close()

	var result []phrases.PhraseRecord
	for rows.Next() {
		var rec phrases.PhraseRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.SourceText,
			&rec.TranslatedText,
			&rec.PhoneticHint,
			&rec.AudioURL,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan phrase: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

// Delete removes one record by id. Deleting an absent id is not an error.
func (r *PhraseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const deletePhrase = `DELETE FROM phrase_logs WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, deletePhrase, id); err != nil {
		return fmt.Errorf("delete phrase: %w", err)
	}
	return nil
}
