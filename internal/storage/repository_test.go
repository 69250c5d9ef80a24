package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"phrasecast/internal/phrases"
)

func TestPhraseRepositoryInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPhraseRepository(db)
	assignedID := uuid.New()
	assignedAt := time.Now()

	mock.ExpectQuery("INSERT INTO phrase_logs").
		WithArgs("おはようございます", "Bonjour", "ボンジュール", "https://example.test/audio.mp3").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(assignedID, assignedAt))

	id, createdAt, err := repo.Insert(context.Background(), phrases.PhraseRecord{
		SourceText:     "おはようございます",
		TranslatedText: "Bonjour",
		PhoneticHint:   "ボンジュール",
		AudioURL:       "https://example.test/audio.mp3",
	})
	require.NoError(t, err)
	require.Equal(t, assignedID, id)
	require.Equal(t, assignedAt, createdAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPhraseRepositoryList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPhraseRepository(db)
	newer := time.Now()
	older := newer.Add(-time.Minute)

	rows := sqlmock.NewRows([]string{"id", "jp", "fr", "kana", "audio_url", "created_at"}).
		AddRow(uuid.New(), "こんにちは", "Bonjour", "ボンジュール", "https://example.test/a.mp3", newer).
		AddRow(uuid.New(), "ありがとう", "Merci", "メルシー", "https://example.test/b.mp3", older)

	mock.ExpectQuery("SELECT id, jp, fr, kana, audio_url, created_at").
		WithArgs(50).
		WillReturnRows(rows)

	result, err := repo.List(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, result, 2)
	require.Equal(t, "Bonjour", result[0].TranslatedText)
	require.Equal(t, "Merci", result[1].TranslatedText)
	require.True(t, result[0].CreatedAt.After(result[1].CreatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPhraseRepositoryDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPhraseRepository(db)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM phrase_logs").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPhraseRepositoryDeleteAbsentID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPhraseRepository(db)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM phrase_logs").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}
