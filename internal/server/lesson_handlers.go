package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/lernwerk/lernwerk/internal/content"
	"github.com/lernwerk/lernwerk/internal/repository"
)

type lessonRequest struct {
	Title       string          `json:"title"`
	Level       string          `json:"level,omitempty"`
	Description string          `json:"description,omitempty"`
	Blocks      json.RawMessage `json:"blocks,omitempty"`
}

func (s *Server) handleCreateLesson(w http.ResponseWriter, r *http.Request) {
	var req lessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.jsonError(w, http.StatusBadRequest, "title is required", nil)
		return
	}

	lesson := content.NewLesson(req.Title)
	lesson.Level = req.Level
	lesson.Description = req.Description
	if len(req.Blocks) > 0 {
		blocks, err := content.UnmarshalBlocks(req.Blocks)
		if err != nil {
			s.jsonError(w, http.StatusBadRequest, "invalid blocks", err)
			return
		}
		lesson.Blocks = blocks
	}

	if err := s.lessons.Create(r.Context(), lesson); err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to store lesson", err)
		return
	}
	s.writeLesson(w, http.StatusCreated, lesson)
}

func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := s.lessons.List(r.Context())
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to list lessons", err)
		return
	}

	result := make([]map[string]interface{}, 0, len(lessons))
	for _, lesson := range lessons {
		result = append(result, map[string]interface{}{
			"id":          lesson.ID,
			"title":       lesson.Title,
			"level":       lesson.Level,
			"description": lesson.Description,
			"block_count": len(lesson.Blocks),
			"updated_at":  lesson.UpdatedAt,
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"lessons": result})
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	lesson, err := s.lessons.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		s.jsonError(w, http.StatusNotFound, "lesson not found", nil)
		return
	}
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to load lesson", err)
		return
	}
	s.writeLesson(w, http.StatusOK, lesson)
}

func (s *Server) handleUpdateLesson(w http.ResponseWriter, r *http.Request) {
	lesson, err := s.lessons.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		s.jsonError(w, http.StatusNotFound, "lesson not found", nil)
		return
	}
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to load lesson", err)
		return
	}

	var req lessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Title != "" {
		lesson.Title = req.Title
	}
	if req.Level != "" {
		lesson.Level = req.Level
	}
	if req.Description != "" {
		lesson.Description = req.Description
	}
	if len(req.Blocks) > 0 {
		blocks, err := content.UnmarshalBlocks(req.Blocks)
		if err != nil {
			s.jsonError(w, http.StatusBadRequest, "invalid blocks", err)
			return
		}
		lesson.SetBlocks(blocks)
	}

	if err := s.lessons.Update(r.Context(), lesson); err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to update lesson", err)
		return
	}
	s.writeLesson(w, http.StatusOK, lesson)
}

func (s *Server) handleDeleteLesson(w http.ResponseWriter, r *http.Request) {
	err := s.lessons.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		s.jsonError(w, http.StatusNotFound, "lesson not found", nil)
		return
	}
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to delete lesson", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImportBlocks applies a paste import to a lesson's block sequence.
// Examples and fill-blanks accept partial success: invalid items are
// dropped, and only an all-invalid paste is rejected.
func (s *Server) handleImportBlocks(w http.ResponseWriter, r *http.Request) {
	lesson, err := s.lessons.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		s.jsonError(w, http.StatusNotFound, "lesson not found", nil)
		return
	}
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to load lesson", err)
		return
	}

	var req struct {
		Kind  string          `json:"kind"` // examples | fillblanks | table
		Data  json.RawMessage `json:"data,omitempty"`
		Text  string          `json:"text,omitempty"`
		Index int             `json:"index"` // insert after this block; -1 appends
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	added := 0
	switch req.Kind {
	case "examples", "fillblanks":
		var (
			blocks []content.Block
			impErr error
		)
		if req.Kind == "examples" {
			blocks, impErr = content.ImportExamples(req.Data)
		} else {
			blocks, impErr = content.ImportFillBlanks(req.Data)
		}
		if errors.Is(impErr, content.ErrNoValidItems) {
			s.jsonError(w, http.StatusBadRequest, "no valid items", nil)
			return
		}
		if impErr != nil {
			s.jsonError(w, http.StatusBadRequest, "import failed", impErr)
			return
		}
		seq := lesson.Blocks
		at := req.Index
		for _, b := range blocks {
			seq = content.InsertAfter(seq, at, b)
			if at >= 0 && at < len(seq)-1 {
				at++
			}
		}
		lesson.SetBlocks(seq)
		added = len(blocks)

	case "table":
		var existing *content.TableBlock
		if req.Index >= 0 && req.Index < len(lesson.Blocks) {
			existing, _ = lesson.Blocks[req.Index].(*content.TableBlock)
		}
		table := content.ImportTable(req.Text, existing)
		if existing != nil {
			seq := make([]content.Block, len(lesson.Blocks))
			copy(seq, lesson.Blocks)
			seq[req.Index] = table
			lesson.SetBlocks(seq)
		} else {
			lesson.SetBlocks(content.InsertAfter(lesson.Blocks, req.Index, table))
		}
		added = 1

	default:
		s.jsonError(w, http.StatusBadRequest, "unknown import kind "+strconv.Quote(req.Kind), nil)
		return
	}

	if err := s.lessons.Update(r.Context(), lesson); err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to update lesson", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"added":  added,
		"blocks": len(lesson.Blocks),
	})
}

// writeLesson serializes a lesson with its block sequence inline.
func (s *Server) writeLesson(w http.ResponseWriter, status int, lesson *content.Lesson) {
	blocks, err := content.MarshalBlocks(lesson.Blocks)
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to encode blocks", err)
		return
	}
	s.jsonResponse(w, status, map[string]interface{}{
		"id":          lesson.ID,
		"title":       lesson.Title,
		"level":       lesson.Level,
		"description": lesson.Description,
		"blocks":      json.RawMessage(blocks),
		"created_at":  lesson.CreatedAt,
		"updated_at":  lesson.UpdatedAt,
	})
}
