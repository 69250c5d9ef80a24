package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"phrasecast/internal/phrases"
)

// Server wires HTTP routing for the phrase API.
type Server struct {
	logger  *slog.Logger
	phrases *phrases.Service
}

// NewServer constructs a chi router implementing http.Handler.
func NewServer(logger *slog.Logger, service *phrases.Service) http.Handler {
	srv := &Server{
		logger:  logger,
		phrases: service,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/phrases", srv.handleCreatePhrase)
	r.Get("/history", srv.handleListHistory)
	r.Delete("/history", srv.handleDeleteHistory)

	return r
}

type createPhraseRequest struct {
	JP string `json:"jp"`
}

type createPhraseResponse struct {
	FR        string     `json:"fr"`
	Kana      string     `json:"kana"`
	AudioURL  string     `json:"audioUrl"`
	ID        *uuid.UUID `json:"id,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (s *Server) handleCreatePhrase(w http.ResponseWriter, r *http.Request) {
	var req createPhraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "jp is required", "")
		return
	}

	result, err := s.phrases.CreatePhrase(r.Context(), req.JP)
	if err != nil {
		switch {
		case errors.Is(err, phrases.ErrInvalidInput):
			s.writeError(w, http.StatusBadRequest, "jp is required", "")
		case errors.Is(err, phrases.ErrTranslationFailed):
			s.writeError(w, http.StatusInternalServerError, "translation failed", "")
		case errors.Is(err, phrases.ErrSynthesisFailed):
			s.writeError(w, http.StatusInternalServerError, "synthesis failed", errorDetail(err, phrases.ErrSynthesisFailed))
		case errors.Is(err, phrases.ErrUploadFailed):
			s.writeError(w, http.StatusInternalServerError, "upload failed", errorDetail(err, phrases.ErrUploadFailed))
		default:
			s.logger.Error("create phrase failed", slog.String("error", err.Error()))
			s.writeError(w, http.StatusInternalServerError, "internal", err.Error())
		}
		return
	}

	s.writeJSON(w, http.StatusOK, createPhraseResponse{
		FR:        result.TranslatedText,
		Kana:      result.PhoneticHint,
		AudioURL:  result.AudioURL,
		ID:        result.ID,
		CreatedAt: result.CreatedAt,
	})
}

type historyResponse struct {
	Items []phrases.PhraseRecord `json:"items"`
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil {
			limit = parsed
		}
	}

	records, err := s.phrases.ListHistory(r.Context(), limit)
	if err != nil {
		s.logger.Error("list history failed", slog.String("error", err.Error()))
		s.writeError(w, http.StatusInternalServerError, "history query failed", "")
		return
	}

	if records == nil {
		records = []phrases.PhraseRecord{}
	}
	s.writeJSON(w, http.StatusOK, historyResponse{Items: records})
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		s.writeError(w, http.StatusBadRequest, "id is required", "")
		return
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "id is invalid", "")
		return
	}

	if err := s.phrases.DeleteHistory(r.Context(), id); err != nil {
		if errors.Is(err, phrases.ErrInvalidInput) {
			s.writeError(w, http.StatusBadRequest, "id is required", "")
			return
		}
		s.logger.Error("delete history failed", slog.String("error", err.Error()))
		s.writeError(w, http.StatusInternalServerError, "history delete failed", "")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response failed", slog.String("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg, detail string) {
	s.writeJSON(w, status, errorResponse{Error: msg, Detail: detail})
}

// errorDetail strips the sentinel prefix so the response detail carries only
// the provider's message.
func errorDetail(err error, sentinel error) string {
	return strings.TrimPrefix(strings.TrimPrefix(err.Error(), sentinel.Error()), ": ")
}
