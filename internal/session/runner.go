package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lernwerk/lernwerk/internal/quiz"
)

// QuestionSource fetches the question set for a filter. Implementations may
// serve from cache as a fallback, reporting stale=true.
type QuestionSource interface {
	Fetch(ctx context.Context, f Filter) (questions []*quiz.Question, stale bool, err error)
}

// ProgressSink records progress snapshots. Calls are best-effort; the runner
// never blocks a transition on them and never rolls back score state when
// they fail.
type ProgressSink interface {
	SaveProgress(ctx context.Context, snap Snapshot) error
}

// Runner drives the session state machine: it dispatches actions through the
// reducer and executes the requested effects.
type Runner struct {
	mu    sync.Mutex
	state State

	source QuestionSource
	sinks  []ProgressSink
}

// NewRunner creates a runner over a question source and zero or more
// progress sinks.
func NewRunner(source QuestionSource, sinks ...ProgressSink) *Runner {
	return &Runner{
		state:  State{Phase: PhaseLoading, Answers: map[string]quiz.Answer{}},
		source: source,
		sinks:  sinks,
	}
}

// State returns a copy of the current session state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start begins a session with the given filter.
func (r *Runner) Start(ctx context.Context, f Filter) {
	r.mu.Lock()
	r.state = NewState(f)
	token := r.state.FetchToken
	r.mu.Unlock()

	r.fetch(ctx, token, f)
}

// SelectAnswer stores a tentative answer for the current question.
func (r *Runner) SelectAnswer(questionID string, a quiz.Answer) {
	r.dispatch(context.Background(), SelectAnswer{QuestionID: questionID, Answer: a})
}

// Submit checks and reveals the current question.
func (r *Runner) Submit(ctx context.Context) {
	r.dispatch(ctx, Submit{})
}

// Next advances the session.
func (r *Runner) Next() {
	r.dispatch(context.Background(), Next{})
}

// Restart resets the session to the first question.
func (r *Runner) Restart(ctx context.Context) {
	r.dispatch(ctx, Restart{})
}

// SetFilter resets the session and fetches the set for the new filter.
func (r *Runner) SetFilter(ctx context.Context, f Filter) {
	r.dispatch(ctx, SetFilter{Filter: f})
}

func (r *Runner) dispatch(ctx context.Context, a Action) {
	r.mu.Lock()
	next, effects := Reduce(r.state, a)
	r.state = next
	r.mu.Unlock()

	for _, eff := range effects {
		switch e := eff.(type) {
		case FetchQuestions:
			r.fetch(ctx, e.Token, e.Filter)
		case PersistSnapshot:
			r.persist(e.Snapshot)
		}
	}
}

// fetch resolves the question set and feeds the result back through the
// reducer. The token guards against a late response for a superseded filter.
func (r *Runner) fetch(ctx context.Context, token int, f Filter) {
	questions, stale, err := r.source.Fetch(ctx, f)
	if err != nil {
		r.dispatch(ctx, LoadFailed{Token: token, Message: err.Error()})
		return
	}
	r.dispatch(ctx, QuestionsLoaded{Token: token, Questions: questions, Stale: stale})
}

// persist fans a snapshot out to every sink, fire-and-forget.
func (r *Runner) persist(snap Snapshot) {
	for _, sink := range r.sinks {
		go func(sink ProgressSink) {
			if err := sink.SaveProgress(context.Background(), snap); err != nil {
				slog.Warn("progress snapshot not persisted",
					"question_id", snap.QuestionID,
					"error", err,
				)
			}
		}(sink)
	}
}
