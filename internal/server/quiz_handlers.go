package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lernwerk/lernwerk/internal/quiz"
	"github.com/lernwerk/lernwerk/internal/repository"
	"github.com/lernwerk/lernwerk/internal/session"
)

// handleGetQuiz serves the filtered question set. When the network source is
// down the set comes from the offline cache and the response is flagged as
// stale.
func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid filter", err)
		return
	}

	questions, stale, err := s.fetcher.Fetch(r.Context(), filter)
	if err != nil {
		s.jsonError(w, http.StatusServiceUnavailable, "question set unavailable", err)
		return
	}

	if stale {
		w.Header().Set("X-Data-Source", "cache")
	} else {
		w.Header().Set("X-Data-Source", "network")
	}
	if questions == nil {
		questions = []*quiz.Question{}
	}
	s.jsonResponse(w, http.StatusOK, questions)
}

// handleCreateQuiz accepts a single question object or an array for bulk
// creation. Bulk is all-or-nothing: one invalid item rejects the batch.
func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "read request body", err)
		return
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var inputs []quiz.NewQuestionInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
			return
		}
		questions, err := quiz.ValidateBatch(inputs)
		if err != nil {
			s.jsonError(w, http.StatusBadRequest, "validation failed", err)
			return
		}
		count, err := s.questions.CreateBatch(r.Context(), questions)
		if err != nil {
			s.jsonError(w, http.StatusInternalServerError, "failed to store questions", err)
			return
		}
		s.jsonResponse(w, http.StatusCreated, map[string]interface{}{
			"count":   count,
			"skipped": len(questions) - count,
		})
		return
	}

	var input quiz.NewQuestionInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	q, err := quiz.ValidateOne(input)
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "validation failed", err)
		return
	}
	if err := s.questions.Create(r.Context(), q); err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to store question", err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, q)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := s.questions.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		s.jsonError(w, http.StatusNotFound, "question not found", nil)
		return
	}
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to load question", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, q)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	err := s.questions.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		s.jsonError(w, http.StatusNotFound, "question not found", nil)
		return
	}
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to delete question", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSaveProgress records an answered-question snapshot. Recording is
// best-effort across all sinks; the response does not wait for them.
func (s *Server) handleSaveProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionID string          `json:"question_id"`
		Answer     json.RawMessage `json:"answer"`
		IsCorrect  bool            `json:"is_correct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.QuestionID == "" {
		s.jsonError(w, http.StatusBadRequest, "question_id is required", nil)
		return
	}

	snap := session.Snapshot{
		QuestionID: req.QuestionID,
		Answer:     quiz.RawAnswer(req.Answer),
		IsCorrect:  req.IsCorrect,
		Timestamp:  time.Now().UTC(),
	}
	for _, rec := range s.progress {
		go saveProgress(rec, snap)
	}

	s.jsonResponse(w, http.StatusAccepted, map[string]interface{}{
		"question_id": snap.QuestionID,
		"recorded":    true,
	})
}

func saveProgress(rec ProgressRecorder, snap session.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rec.SaveProgress(ctx, snap); err != nil {
		slog.Warn("progress snapshot not persisted",
			"question_id", snap.QuestionID,
			"error", err,
		)
	}
}

func parseFilter(r *http.Request) (session.Filter, error) {
	var f session.Filter
	if lvl := r.URL.Query().Get("level"); lvl != "" {
		level, err := quiz.ParseLevel(lvl)
		if err != nil {
			return f, err
		}
		f.Level = level
	}
	if tags := r.URL.Query().Get("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Tags = append(f.Tags, t)
			}
		}
	}
	return f, nil
}
