package phrases

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeTranslator struct {
	calls       int
	translation Translation
	err         error
}

func (f *fakeTranslator) Translate(ctx context.Context, sourceText string) (Translation, error) {
	f.calls++
	return f.translation, f.err
}

type fakeSynthesizer struct {
	calls int
	audio []byte
	err   error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.calls++
	return f.audio, f.err
}

type fakeStore struct {
	uploads   int
	uploadErr error
	names     []string
}

func (f *fakeStore) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	f.uploads++
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.names = append(f.names, name)
	return nil
}

func (f *fakeStore) PublicURL(name string) string {
	return "https://cdn.test/" + name
}

type fakeRepo struct {
	inserts    int
	insertErr  error
	lastInsert PhraseRecord
	assignedID uuid.UUID
	assignedAt time.Time

	listCalls int
	lastLimit int
	records   []PhraseRecord
	listErr   error

	deletes   int
	deleteErr error
}

func (f *fakeRepo) Insert(ctx context.Context, rec PhraseRecord) (uuid.UUID, time.Time, error) {
	f.inserts++
	if f.insertErr != nil {
		return uuid.Nil, time.Time{}, f.insertErr
	}
	f.lastInsert = rec
	return f.assignedID, f.assignedAt, nil
}

func (f *fakeRepo) List(ctx context.Context, limit int) ([]PhraseRecord, error) {
	f.listCalls++
	f.lastLimit = limit
	return f.records, f.listErr
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deletes++
	return f.deleteErr
}

type testHarness struct {
	service     *Service
	translator  *fakeTranslator
	synthesizer *fakeSynthesizer
	store       *fakeStore
	repo        *fakeRepo
}

func newHarness() *testHarness {
	h := &testHarness{
		translator: &fakeTranslator{
			translation: Translation{Text: "Bonjour", Phonetic: "ボンジュール"},
		},
		synthesizer: &fakeSynthesizer{audio: []byte("mp3-bytes")},
		store:       &fakeStore{},
		repo: &fakeRepo{
			assignedID: uuid.New(),
			assignedAt: time.Now(),
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.service = NewService(logger, h.repo, h.translator, h.synthesizer, h.store)
	return h
}

func TestCreatePhraseRejectsEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t "} {
		h := newHarness()

		_, err := h.service.CreatePhrase(context.Background(), input)
		require.ErrorIs(t, err, ErrInvalidInput)

		require.Zero(t, h.translator.calls)
		require.Zero(t, h.synthesizer.calls)
		require.Zero(t, h.store.uploads)
		require.Zero(t, h.repo.inserts)
	}
}

func TestCreatePhraseSuccess(t *testing.T) {
	h := newHarness()

	result, err := h.service.CreatePhrase(context.Background(), "おはようございます")
	require.NoError(t, err)

	require.Equal(t, "Bonjour", result.TranslatedText)
	require.Equal(t, "ボンジュール", result.PhoneticHint)
	require.NotNil(t, result.ID)
	require.Equal(t, h.repo.assignedID, *result.ID)
	require.NotNil(t, result.CreatedAt)

	require.Len(t, h.store.names, 1)
	require.True(t, strings.HasSuffix(h.store.names[0], "_Bonjour.mp3"))
	require.Equal(t, "https://cdn.test/"+h.store.names[0], result.AudioURL)

	require.Equal(t, "おはようございます", h.repo.lastInsert.SourceText)
	require.Equal(t, "Bonjour", h.repo.lastInsert.TranslatedText)
	require.Equal(t, result.AudioURL, h.repo.lastInsert.AudioURL)
}

func TestCreatePhraseEmptyTranslationFails(t *testing.T) {
	h := newHarness()
	h.translator.translation = Translation{Text: "  "}

	_, err := h.service.CreatePhrase(context.Background(), "おはよう")
	require.ErrorIs(t, err, ErrTranslationFailed)

	require.Zero(t, h.synthesizer.calls)
	require.Zero(t, h.store.uploads)
	require.Zero(t, h.repo.inserts)
}

func TestCreatePhraseTranslatorErrorFails(t *testing.T) {
	h := newHarness()
	h.translator.err = errors.New("provider down")

	_, err := h.service.CreatePhrase(context.Background(), "おはよう")
	require.ErrorIs(t, err, ErrTranslationFailed)
	require.Zero(t, h.synthesizer.calls)
}

func TestCreatePhraseSynthesisFailureStopsPipeline(t *testing.T) {
	h := newHarness()
	h.synthesizer.err = errors.New("tts unavailable")

	_, err := h.service.CreatePhrase(context.Background(), "おはよう")
	require.ErrorIs(t, err, ErrSynthesisFailed)

	require.Equal(t, 1, h.translator.calls)
	require.Zero(t, h.store.uploads)
	require.Zero(t, h.repo.inserts)
}

func TestCreatePhraseUploadFailureStopsPipeline(t *testing.T) {
	h := newHarness()
	h.store.uploadErr = errors.New("bucket unavailable")

	_, err := h.service.CreatePhrase(context.Background(), "おはよう")
	require.ErrorIs(t, err, ErrUploadFailed)

	require.Equal(t, 1, h.synthesizer.calls)
	require.Zero(t, h.repo.inserts)
}

func TestCreatePhraseInsertFailureIsNonFatal(t *testing.T) {
	h := newHarness()
	h.repo.insertErr = errors.New("db down")

	result, err := h.service.CreatePhrase(context.Background(), "おはよう")
	require.NoError(t, err)

	require.Equal(t, 1, h.store.uploads)
	require.Equal(t, 1, h.repo.inserts)
	require.Nil(t, result.ID)
	require.Nil(t, result.CreatedAt)
	require.Equal(t, "Bonjour", result.TranslatedText)
	require.NotEmpty(t, result.AudioURL)
}

func TestCreatePhraseSameMillisecondCollision(t *testing.T) {
	h := newHarness()
	fixed := time.UnixMilli(1700000000000)
	h.service.now = func() time.Time { return fixed }

	// Identical translations within the same millisecond derive the same
	// object name; the no-overwrite store rejects the second upload.
	h.service.store = &collidingStore{seen: map[string]bool{}}

	_, err := h.service.CreatePhrase(context.Background(), "おはよう")
	require.NoError(t, err)

	_, err = h.service.CreatePhrase(context.Background(), "おはよう")
	require.ErrorIs(t, err, ErrUploadFailed)

	// A different translation at the same instant slugs differently and goes through.
	h.translator.translation = Translation{Text: "Merci beaucoup"}
	_, err = h.service.CreatePhrase(context.Background(), "ありがとう")
	require.NoError(t, err)
}

type collidingStore struct {
	seen map[string]bool
}

func (c *collidingStore) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	if c.seen[name] {
		return errors.New("object already exists")
	}
	c.seen[name] = true
	return nil
}

func (c *collidingStore) PublicURL(name string) string {
	return "https://cdn.test/" + name
}

// memoryRepo keeps records newest-first like the real store's default order.
type memoryRepo struct {
	records []PhraseRecord
}

func (m *memoryRepo) Insert(ctx context.Context, rec PhraseRecord) (uuid.UUID, time.Time, error) {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	m.records = append([]PhraseRecord{rec}, m.records...)
	return rec.ID, rec.CreatedAt, nil
}

func (m *memoryRepo) List(ctx context.Context, limit int) ([]PhraseRecord, error) {
	if limit > len(m.records) {
		limit = len(m.records)
	}
	return m.records[:limit], nil
}

func (m *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, rec := range m.records {
		if rec.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func TestCreatePhraseRoundTrip(t *testing.T) {
	h := newHarness()
	repo := &memoryRepo{}
	h.service.repo = repo

	created, err := h.service.CreatePhrase(context.Background(), "おはようございます")
	require.NoError(t, err)

	items, err := h.service.ListHistory(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, *created.ID, items[0].ID)
	require.Equal(t, "おはようございます", items[0].SourceText)
	require.Equal(t, created.TranslatedText, items[0].TranslatedText)
	require.Equal(t, created.PhoneticHint, items[0].PhoneticHint)
	require.Equal(t, created.AudioURL, items[0].AudioURL)

	require.NoError(t, h.service.DeleteHistory(context.Background(), items[0].ID))
	items, err = h.service.ListHistory(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestListHistoryClampsLimit(t *testing.T) {
	cases := []struct {
		requested int
		want      int
	}{
		{requested: 0, want: 50},
		{requested: -3, want: 50},
		{requested: 7, want: 7},
		{requested: 200, want: 200},
		{requested: 100000, want: 200},
	}

	for _, tc := range cases {
		h := newHarness()

		_, err := h.service.ListHistory(context.Background(), tc.requested)
		require.NoError(t, err)
		require.Equal(t, tc.want, h.repo.lastLimit, "requested=%d", tc.requested)
	}
}

func TestListHistoryPropagatesStoreError(t *testing.T) {
	h := newHarness()
	h.repo.listErr = errors.New("db down")

	_, err := h.service.ListHistory(context.Background(), 10)
	require.Error(t, err)
}

func TestDeleteHistoryRequiresID(t *testing.T) {
	h := newHarness()

	err := h.service.DeleteHistory(context.Background(), uuid.Nil)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Zero(t, h.repo.deletes)
}

func TestDeleteHistory(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.service.DeleteHistory(context.Background(), uuid.New()))
	require.Equal(t, 1, h.repo.deletes)
}
