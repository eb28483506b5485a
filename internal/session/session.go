package session

import (
	"time"

	"github.com/lernwerk/lernwerk/internal/quiz"
)

// Phase is the state-machine phase of a quiz session.
type Phase string

const (
	PhaseLoading   Phase = "loading"
	PhaseActive    Phase = "active"
	PhaseCompleted Phase = "completed"
	PhaseFailed    Phase = "failed"
)

// Filter selects the question set for a session.
type Filter struct {
	Level quiz.Level `json:"level,omitempty"`
	Tags  []string   `json:"tags,omitempty"`
}

// State is the full, ephemeral session state. Transitions go through Reduce;
// nothing mutates a State in place.
type State struct {
	Phase      Phase
	Filter     Filter
	FetchToken int // identifies the fetch this state is waiting on

	Questions []*quiz.Question
	Index     int
	Answers   map[string]quiz.Answer // question ID -> tentative answer
	Revealed  bool
	Score     int

	Stale  bool   // question set came from the offline cache
	ErrMsg string // only in PhaseFailed
}

// NewState returns the initial state: loading the first question set.
func NewState(f Filter) State {
	return State{
		Phase:      PhaseLoading,
		Filter:     f,
		FetchToken: 1,
		Answers:    map[string]quiz.Answer{},
	}
}

// Current returns the question at the cursor, or nil outside the active set.
func (s State) Current() *quiz.Question {
	if s.Index < 0 || s.Index >= len(s.Questions) {
		return nil
	}
	return s.Questions[s.Index]
}

// CurrentAnswer returns the tentative answer for the current question.
func (s State) CurrentAnswer() quiz.Answer {
	q := s.Current()
	if q == nil {
		return nil
	}
	return s.Answers[q.ID]
}

// Snapshot records one answered question's outcome for offline review.
type Snapshot struct {
	QuestionID string      `json:"question_id"`
	Answer     quiz.Answer `json:"answer"`
	IsCorrect  bool        `json:"is_correct"`
	Timestamp  time.Time   `json:"timestamp"`
}

func cloneAnswers(in map[string]quiz.Answer) map[string]quiz.Answer {
	out := make(map[string]quiz.Answer, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
