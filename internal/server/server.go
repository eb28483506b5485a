package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lernwerk/lernwerk/internal/config"
	"github.com/lernwerk/lernwerk/internal/content"
	"github.com/lernwerk/lernwerk/internal/quiz"
	"github.com/lernwerk/lernwerk/internal/repository"
	"github.com/lernwerk/lernwerk/internal/session"
)

// LessonStore persists lessons. Calls are atomic; the server does not retry.
type LessonStore interface {
	Create(ctx context.Context, lesson *content.Lesson) error
	GetByID(ctx context.Context, id string) (*content.Lesson, error)
	List(ctx context.Context) ([]*content.Lesson, error)
	Update(ctx context.Context, lesson *content.Lesson) error
	Delete(ctx context.Context, id string) error
}

// QuestionStore persists validated quiz questions.
type QuestionStore interface {
	Create(ctx context.Context, q *quiz.Question) error
	CreateBatch(ctx context.Context, questions []*quiz.Question) (int, error)
	GetByID(ctx context.Context, id string) (*quiz.Question, error)
	Delete(ctx context.Context, id string) error
}

// QuestionFetcher resolves question sets, possibly from the offline cache.
type QuestionFetcher interface {
	Fetch(ctx context.Context, f session.Filter) (questions []*quiz.Question, stale bool, err error)
}

// VocabularyStore resolves vocabulary references for blocks.
type VocabularyStore interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*repository.Vocabulary, error)
}

// ProgressRecorder records progress snapshots, best-effort.
type ProgressRecorder interface {
	SaveProgress(ctx context.Context, snap session.Snapshot) error
}

// Server is the Lernwerk daemon HTTP server.
type Server struct {
	cfg    *config.LocalConfig
	server *http.Server
	router *http.ServeMux

	lessons   LessonStore
	questions QuestionStore
	fetcher   QuestionFetcher
	vocab     VocabularyStore
	progress  []ProgressRecorder
}

// Deps bundles the collaborators for a new server.
type Deps struct {
	Lessons   LessonStore
	Questions QuestionStore
	Fetcher   QuestionFetcher
	Vocab     VocabularyStore
	Progress  []ProgressRecorder
}

// NewServer creates a daemon server over its collaborators.
func NewServer(cfg *config.LocalConfig, deps Deps) *Server {
	s := &Server{
		cfg:       cfg,
		router:    http.NewServeMux(),
		lessons:   deps.Lessons,
		questions: deps.Questions,
		fetcher:   deps.Fetcher,
		vocab:     deps.Vocab,
		progress:  deps.Progress,
	}

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Daemon.Bind, cfg.Daemon.Port)
	handler := recoveryMiddleware(loggingMiddleware(correlationIDMiddleware(s.router)))
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health & status
	s.router.HandleFunc("GET /v1/health", s.handleHealth)
	s.router.HandleFunc("GET /v1/status", s.handleStatus)

	// Quiz questions
	s.router.HandleFunc("GET /v1/quiz", s.handleGetQuiz)
	s.router.HandleFunc("POST /v1/quiz", s.handleCreateQuiz)
	s.router.HandleFunc("GET /v1/quiz/{id}", s.handleGetQuestion)
	s.router.HandleFunc("DELETE /v1/quiz/{id}", s.handleDeleteQuestion)

	// Lessons
	s.router.HandleFunc("POST /v1/lessons", s.handleCreateLesson)
	s.router.HandleFunc("GET /v1/lessons", s.handleListLessons)
	s.router.HandleFunc("GET /v1/lessons/{id}", s.handleGetLesson)
	s.router.HandleFunc("PUT /v1/lessons/{id}", s.handleUpdateLesson)
	s.router.HandleFunc("DELETE /v1/lessons/{id}", s.handleDeleteLesson)
	s.router.HandleFunc("POST /v1/lessons/{id}/blocks/import", s.handleImportBlocks)

	// Vocabulary lookups for vocabulary blocks
	s.router.HandleFunc("GET /v1/vocabulary", s.handleGetVocabulary)

	// Progress snapshots
	s.router.HandleFunc("POST /v1/progress", s.handleSaveProgress)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	slog.Info("starting lernwerk daemon", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down daemon...")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":  "running",
		"version": "0.1.0",
	})
}

// Helper methods

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	s.jsonResponse(w, status, response)
}
