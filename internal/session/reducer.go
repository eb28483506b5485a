package session

import (
	"time"

	"github.com/lernwerk/lernwerk/internal/quiz"
)

// Action is a session transition request. The closed set below is the entire
// transition surface of the state machine.
type Action interface{ isAction() }

// QuestionsLoaded delivers a fetched question set. Token must match the
// state's FetchToken; responses for superseded fetches are discarded.
type QuestionsLoaded struct {
	Token     int
	Questions []*quiz.Question
	Stale     bool
}

// LoadFailed reports that both the network fetch and the offline fallback
// failed for the tagged fetch.
type LoadFailed struct {
	Token   int
	Message string
}

// SelectAnswer stores a tentative answer for the current question. Rejected
// once the result is revealed.
type SelectAnswer struct {
	QuestionID string
	Answer     quiz.Answer
}

// Submit checks the current answer, reveals the result, and scores it.
type Submit struct{}

// Next advances to the next question or completes the session.
type Next struct{}

// Restart returns to the first question, clearing score, answers and filter.
type Restart struct{}

// SetFilter changes the level/tag filter, fully resetting session state and
// requesting a fresh fetch.
type SetFilter struct {
	Filter Filter
}

func (QuestionsLoaded) isAction() {}
func (LoadFailed) isAction()      {}
func (SelectAnswer) isAction()    {}
func (Submit) isAction()          {}
func (Next) isAction()            {}
func (Restart) isAction()         {}
func (SetFilter) isAction()       {}

// Effect is a side effect requested by a transition. The reducer stays pure;
// the runner executes effects.
type Effect interface{ isEffect() }

// FetchQuestions asks the runner to fetch the question set for Filter and
// dispatch QuestionsLoaded/LoadFailed tagged with Token.
type FetchQuestions struct {
	Token  int
	Filter Filter
}

// PersistSnapshot asks the runner to record a progress snapshot,
// best-effort.
type PersistSnapshot struct {
	Snapshot Snapshot
}

func (FetchQuestions) isEffect()  {}
func (PersistSnapshot) isEffect() {}

// Reduce applies one action to the state and returns the next state plus any
// requested effects. Invalid or out-of-phase actions are no-ops.
func Reduce(s State, a Action) (State, []Effect) {
	switch act := a.(type) {
	case QuestionsLoaded:
		if act.Token != s.FetchToken {
			return s, nil // stale response for a superseded filter
		}
		s.Phase = PhaseActive
		s.Questions = act.Questions
		s.Index = 0
		s.Answers = map[string]quiz.Answer{}
		s.Revealed = false
		s.Score = 0
		s.Stale = act.Stale
		s.ErrMsg = ""
		return s, nil

	case LoadFailed:
		if act.Token != s.FetchToken {
			return s, nil
		}
		s.Phase = PhaseFailed
		s.ErrMsg = act.Message
		return s, nil

	case SelectAnswer:
		q := s.Current()
		if s.Phase != PhaseActive || s.Revealed || q == nil || q.ID != act.QuestionID {
			return s, nil
		}
		answers := cloneAnswers(s.Answers)
		answers[act.QuestionID] = act.Answer
		s.Answers = answers
		return s, nil

	case Submit:
		q := s.Current()
		if s.Phase != PhaseActive || s.Revealed || q == nil {
			return s, nil
		}
		answer, ok := s.Answers[q.ID]
		if !ok || answer == nil || answer.Empty() {
			return s, nil // nothing to submit yet
		}
		correct, err := quiz.CheckAnswer(q, answer)
		if err != nil {
			return s, nil // shape mismatch: treat as not submittable
		}
		s.Revealed = true
		if correct {
			s.Score++
		}
		snap := Snapshot{
			QuestionID: q.ID,
			Answer:     answer,
			IsCorrect:  correct,
			Timestamp:  time.Now().UTC(),
		}
		return s, []Effect{PersistSnapshot{Snapshot: snap}}

	case Next:
		if s.Phase != PhaseActive {
			return s, nil
		}
		if s.Index+1 < len(s.Questions) {
			s.Index++
			s.Revealed = false
			return s, nil
		}
		s.Phase = PhaseCompleted
		return s, nil

	case Restart:
		if len(s.Questions) == 0 {
			token := s.FetchToken + 1
			s = NewState(Filter{})
			s.FetchToken = token
			return s, []Effect{FetchQuestions{Token: token, Filter: s.Filter}}
		}
		s.Phase = PhaseActive
		s.Filter = Filter{}
		s.Index = 0
		s.Answers = map[string]quiz.Answer{}
		s.Revealed = false
		s.Score = 0
		return s, nil

	case SetFilter:
		s.Phase = PhaseLoading
		s.Filter = act.Filter
		s.FetchToken++
		s.Questions = nil
		s.Index = 0
		s.Answers = map[string]quiz.Answer{}
		s.Revealed = false
		s.Score = 0
		s.Stale = false
		s.ErrMsg = ""
		return s, []Effect{FetchQuestions{Token: s.FetchToken, Filter: act.Filter}}

	default:
		return s, nil
	}
}
