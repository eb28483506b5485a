package session

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/lernwerk/lernwerk/internal/quiz"
)

func mcq(t *testing.T, correct int) *quiz.Question {
	t.Helper()
	raw := fmt.Sprintf(`{"question":"Was ist grün?","options":["das Gras","der Schnee"],"correctAnswer":%d}`, correct)
	q, err := quiz.NewQuestion(quiz.TypeMCQ, json.RawMessage(raw), quiz.LevelA1, nil)
	if err != nil {
		t.Fatalf("NewQuestion: %v", err)
	}
	return q
}

func loadedState(t *testing.T, questions ...*quiz.Question) State {
	t.Helper()
	s := NewState(Filter{})
	s, effs := Reduce(s, QuestionsLoaded{Token: s.FetchToken, Questions: questions})
	if len(effs) != 0 {
		t.Fatalf("load produced effects: %v", effs)
	}
	if s.Phase != PhaseActive {
		t.Fatalf("phase = %q, want active", s.Phase)
	}
	return s
}

func TestReduce_QuestionsLoaded(t *testing.T) {
	s := NewState(Filter{Level: quiz.LevelB1})
	q := mcq(t, 0)

	s, _ = Reduce(s, QuestionsLoaded{Token: s.FetchToken, Questions: []*quiz.Question{q}, Stale: true})

	if s.Phase != PhaseActive || s.Index != 0 || !s.Stale {
		t.Errorf("state = %+v", s)
	}
	if s.Current() != q {
		t.Error("cursor should sit on the first question")
	}
}

func TestReduce_StaleTokenDiscarded(t *testing.T) {
	s := NewState(Filter{})
	q := mcq(t, 0)

	s, effs := Reduce(s, SetFilter{Filter: Filter{Level: quiz.LevelB2}})
	if len(effs) != 1 {
		t.Fatalf("expected one fetch effect, got %v", effs)
	}
	fetch := effs[0].(FetchQuestions)
	if fetch.Token != s.FetchToken {
		t.Fatalf("effect token = %d, state token = %d", fetch.Token, s.FetchToken)
	}

	// response for the original fetch arrives late
	s2, _ := Reduce(s, QuestionsLoaded{Token: fetch.Token - 1, Questions: []*quiz.Question{q}})
	if s2.Phase != PhaseLoading || len(s2.Questions) != 0 {
		t.Errorf("stale response must be discarded, state = %+v", s2)
	}

	// the matching response lands
	s3, _ := Reduce(s, QuestionsLoaded{Token: fetch.Token, Questions: []*quiz.Question{q}})
	if s3.Phase != PhaseActive {
		t.Errorf("matching response must apply, phase = %q", s3.Phase)
	}
}

func TestReduce_LoadFailed(t *testing.T) {
	s := NewState(Filter{})
	s, _ = Reduce(s, LoadFailed{Token: s.FetchToken, Message: "network and cache empty"})
	if s.Phase != PhaseFailed || s.ErrMsg == "" {
		t.Errorf("state = %+v", s)
	}

	// a stale failure is ignored too
	s2 := NewState(Filter{})
	s2, _ = Reduce(s2, LoadFailed{Token: 99, Message: "late"})
	if s2.Phase != PhaseLoading {
		t.Errorf("phase = %q", s2.Phase)
	}
}

func TestReduce_AnswerRoundTrip(t *testing.T) {
	q1 := mcq(t, 0)
	q2 := mcq(t, 1)
	s := loadedState(t, q1, q2)

	// select, submit correct answer
	s, _ = Reduce(s, SelectAnswer{QuestionID: q1.ID, Answer: quiz.ChoiceAnswer(0)})
	if s.CurrentAnswer() != quiz.ChoiceAnswer(0) {
		t.Fatal("answer not stored")
	}

	s, effs := Reduce(s, Submit{})
	if !s.Revealed || s.Score != 1 {
		t.Errorf("after submit: revealed=%v score=%d", s.Revealed, s.Score)
	}
	if len(effs) != 1 {
		t.Fatalf("expected snapshot effect, got %v", effs)
	}
	snap := effs[0].(PersistSnapshot).Snapshot
	if snap.QuestionID != q1.ID || !snap.IsCorrect {
		t.Errorf("snapshot = %+v", snap)
	}

	// double submit is a no-op
	s2, effs := Reduce(s, Submit{})
	if s2.Score != 1 || len(effs) != 0 {
		t.Error("second submit must not re-score")
	}

	// advance, answer wrong
	s, _ = Reduce(s, Next{})
	if s.Index != 1 || s.Revealed {
		t.Errorf("after next: index=%d revealed=%v", s.Index, s.Revealed)
	}
	s, _ = Reduce(s, SelectAnswer{QuestionID: q2.ID, Answer: quiz.ChoiceAnswer(0)})
	s, effs = Reduce(s, Submit{})
	if s.Score != 1 {
		t.Errorf("wrong answer must not score, score=%d", s.Score)
	}
	if snap := effs[0].(PersistSnapshot).Snapshot; snap.IsCorrect {
		t.Error("snapshot should record the miss")
	}

	// past the last question the session completes
	s, _ = Reduce(s, Next{})
	if s.Phase != PhaseCompleted {
		t.Errorf("phase = %q, want completed", s.Phase)
	}
}

func TestReduce_SubmitRequiresAnswer(t *testing.T) {
	q := mcq(t, 0)
	s := loadedState(t, q)

	s2, effs := Reduce(s, Submit{})
	if s2.Revealed || len(effs) != 0 {
		t.Error("submit without an answer must be a no-op")
	}

	// an empty matching answer does not count as submitted
	s, _ = Reduce(s, SelectAnswer{QuestionID: q.ID, Answer: quiz.MatchAnswer{}})
	s2, effs = Reduce(s, Submit{})
	if s2.Revealed || len(effs) != 0 {
		t.Error("empty answer must be a no-op")
	}
}

func TestReduce_SelectAnswerGuards(t *testing.T) {
	q := mcq(t, 0)
	s := loadedState(t, q)

	// wrong question ID
	s2, _ := Reduce(s, SelectAnswer{QuestionID: "other", Answer: quiz.ChoiceAnswer(1)})
	if len(s2.Answers) != 0 {
		t.Error("answer for a non-current question must be dropped")
	}

	// after reveal the answer is locked
	s, _ = Reduce(s, SelectAnswer{QuestionID: q.ID, Answer: quiz.ChoiceAnswer(0)})
	s, _ = Reduce(s, Submit{})
	s2, _ = Reduce(s, SelectAnswer{QuestionID: q.ID, Answer: quiz.ChoiceAnswer(1)})
	if s2.Answers[q.ID] != quiz.ChoiceAnswer(0) {
		t.Error("revealed answer must not change")
	}
}

func TestReduce_SelectAnswerDoesNotMutatePriorState(t *testing.T) {
	q := mcq(t, 0)
	s := loadedState(t, q)

	s2, _ := Reduce(s, SelectAnswer{QuestionID: q.ID, Answer: quiz.ChoiceAnswer(1)})
	if len(s.Answers) != 0 {
		t.Error("reducing must not mutate the input state's answers")
	}
	if s2.Answers[q.ID] != quiz.ChoiceAnswer(1) {
		t.Error("new state should carry the answer")
	}
}

func TestReduce_RestartKeepsQuestions(t *testing.T) {
	q1 := mcq(t, 0)
	q2 := mcq(t, 1)
	s := loadedState(t, q1, q2)
	s.Filter = Filter{Level: quiz.LevelC1}

	s, _ = Reduce(s, SelectAnswer{QuestionID: q1.ID, Answer: quiz.ChoiceAnswer(0)})
	s, _ = Reduce(s, Submit{})
	s, _ = Reduce(s, Next{})

	s, effs := Reduce(s, Restart{})
	if len(effs) != 0 {
		t.Fatalf("restart with questions must not refetch, got %v", effs)
	}
	if s.Phase != PhaseActive || s.Index != 0 || s.Score != 0 || s.Revealed {
		t.Errorf("state = %+v", s)
	}
	if len(s.Answers) != 0 {
		t.Error("answers must be cleared")
	}
	if s.Filter.Level != "" {
		t.Error("filter must be reset")
	}
	if len(s.Questions) != 2 {
		t.Error("loaded questions must be kept")
	}
}

func TestReduce_RestartWithoutQuestionsRefetches(t *testing.T) {
	s := NewState(Filter{Level: quiz.LevelB1})
	before := s.FetchToken

	s, effs := Reduce(s, Restart{})
	if s.Phase != PhaseLoading {
		t.Errorf("phase = %q", s.Phase)
	}
	if s.FetchToken <= before {
		t.Error("token must advance so the old fetch cannot land")
	}
	if len(effs) != 1 {
		t.Fatalf("expected a fetch effect, got %v", effs)
	}
	if f := effs[0].(FetchQuestions); f.Token != s.FetchToken {
		t.Errorf("effect token = %d, state token = %d", f.Token, s.FetchToken)
	}
}

func TestReduce_SetFilterResetsEverything(t *testing.T) {
	q := mcq(t, 0)
	s := loadedState(t, q)
	s, _ = Reduce(s, SelectAnswer{QuestionID: q.ID, Answer: quiz.ChoiceAnswer(0)})
	s, _ = Reduce(s, Submit{})

	next, effs := Reduce(s, SetFilter{Filter: Filter{Level: quiz.LevelA2, Tags: []string{"artikel"}}})
	if next.Phase != PhaseLoading || next.Score != 0 || next.Revealed || len(next.Answers) != 0 {
		t.Errorf("state = %+v", next)
	}
	if next.FetchToken != s.FetchToken+1 {
		t.Errorf("token = %d, want %d", next.FetchToken, s.FetchToken+1)
	}
	if len(effs) != 1 {
		t.Fatalf("expected a fetch effect, got %v", effs)
	}
	f := effs[0].(FetchQuestions)
	if f.Filter.Level != quiz.LevelA2 || len(f.Filter.Tags) != 1 {
		t.Errorf("effect filter = %+v", f.Filter)
	}
}

func TestReduce_OutOfPhaseActionsAreNoOps(t *testing.T) {
	s := NewState(Filter{})

	for name, a := range map[string]Action{
		"select while loading": SelectAnswer{QuestionID: "x", Answer: quiz.ChoiceAnswer(0)},
		"submit while loading": Submit{},
		"next while loading":   Next{},
	} {
		s2, effs := Reduce(s, a)
		if s2.Phase != PhaseLoading || len(effs) != 0 {
			t.Errorf("%s: state changed", name)
		}
	}
}
