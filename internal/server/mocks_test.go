package server

import (
	"context"
	"sync"

	"github.com/lernwerk/lernwerk/internal/content"
	"github.com/lernwerk/lernwerk/internal/quiz"
	"github.com/lernwerk/lernwerk/internal/repository"
	"github.com/lernwerk/lernwerk/internal/session"
)

// In-memory fakes for the server's collaborators.

type fakeLessonStore struct {
	mu      sync.Mutex
	lessons map[string]*content.Lesson
	err     error
}

func newFakeLessonStore() *fakeLessonStore {
	return &fakeLessonStore{lessons: map[string]*content.Lesson{}}
}

func (f *fakeLessonStore) Create(ctx context.Context, lesson *content.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.lessons[lesson.ID] = lesson
	return nil
}

func (f *fakeLessonStore) GetByID(ctx context.Context, id string) (*content.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	lesson, ok := f.lessons[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return lesson, nil
}

func (f *fakeLessonStore) List(ctx context.Context) ([]*content.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*content.Lesson, 0, len(f.lessons))
	for _, l := range f.lessons {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLessonStore) Update(ctx context.Context, lesson *content.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lessons[lesson.ID]; !ok {
		return repository.ErrNotFound
	}
	f.lessons[lesson.ID] = lesson
	return nil
}

func (f *fakeLessonStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lessons[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.lessons, id)
	return nil
}

type fakeQuestionStore struct {
	mu        sync.Mutex
	questions map[string]*quiz.Question
	skip      int // CreateBatch reports this many duplicates
	err       error
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{questions: map[string]*quiz.Question{}}
}

func (f *fakeQuestionStore) Create(ctx context.Context, q *quiz.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.questions[q.ID] = q
	return nil
}

func (f *fakeQuestionStore) CreateBatch(ctx context.Context, questions []*quiz.Question) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	for _, q := range questions {
		f.questions[q.ID] = q
	}
	return len(questions) - f.skip, nil
}

func (f *fakeQuestionStore) GetByID(ctx context.Context, id string) (*quiz.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return q, nil
}

func (f *fakeQuestionStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.questions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.questions, id)
	return nil
}

type fakeFetcher struct {
	questions []*quiz.Question
	stale     bool
	err       error
	lastQuery session.Filter
}

func (f *fakeFetcher) Fetch(ctx context.Context, filter session.Filter) ([]*quiz.Question, bool, error) {
	f.lastQuery = filter
	if f.err != nil {
		return nil, false, f.err
	}
	return f.questions, f.stale, nil
}

type fakeVocabStore struct {
	entries map[int64]*repository.Vocabulary
}

func (f *fakeVocabStore) GetByIDs(ctx context.Context, ids []int64) (map[int64]*repository.Vocabulary, error) {
	out := map[int64]*repository.Vocabulary{}
	for _, id := range ids {
		if v, ok := f.entries[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

type fakeRecorder struct {
	mu    sync.Mutex
	snaps []session.Snapshot
	err   error
}

func (f *fakeRecorder) SaveProgress(ctx context.Context, snap session.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.snaps = append(f.snaps, snap)
	return nil
}

func (f *fakeRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.snaps)
}
