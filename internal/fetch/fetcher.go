package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/lernwerk/lernwerk/internal/quiz"
	"github.com/lernwerk/lernwerk/internal/session"
)

// Source is the primary (network) question-set provider.
type Source interface {
	List(ctx context.Context, f session.Filter) ([]*quiz.Question, error)
}

// Cache is the offline fallback read path. Writes refresh it after every
// successful network read.
type Cache interface {
	SaveQuizzes(ctx context.Context, questions []*quiz.Question) error
	GetQuizzes(ctx context.Context, level quiz.Level) ([]*quiz.Question, error)
}

// Config tunes the resilience wrapper around the network source.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Logger       *slog.Logger
}

// DefaultConfig returns the defaults used by the daemon.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 250 * time.Millisecond,
	}
}

// Fetcher resolves question sets: network first, wrapped in retry and a
// circuit breaker, with the offline cache as the one fallback. There is no
// retry loop beyond that; a failed fetch with an empty cache is a failed
// fetch.
type Fetcher struct {
	source  Source
	cache   Cache
	breaker circuitbreaker.CircuitBreaker[[]*quiz.Question]
	retrier retry.Retry[[]*quiz.Question]
	logger  *slog.Logger
}

// New creates a fetcher over a network source and an offline cache.
func New(source Source, cache Cache, cfg Config) *Fetcher {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 250 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	f := &Fetcher{source: source, cache: cache, logger: logger}

	f.breaker = circuitbreaker.New[[]*quiz.Question](circuitbreaker.Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			logger.Warn("question source circuit breaker state change",
				"from", from.String(), "to", to.String())
		},
	})

	f.retrier = retry.New[[]*quiz.Question](retry.Config{
		MaxAttempts:   cfg.MaxAttempts,
		InitialDelay:  cfg.InitialDelay,
		MaxDelay:      5 * time.Second,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
	})

	return f
}

// Fetch resolves the question set for a filter. stale reports whether the
// result came from the offline cache rather than the network.
func (f *Fetcher) Fetch(ctx context.Context, filter session.Filter) (questions []*quiz.Question, stale bool, err error) {
	questions, netErr := f.breaker.Execute(ctx, func(ctx context.Context) ([]*quiz.Question, error) {
		return f.retrier.Do(ctx, func(ctx context.Context) ([]*quiz.Question, error) {
			return f.source.List(ctx, filter)
		})
	})
	if netErr == nil {
		if cacheErr := f.cache.SaveQuizzes(ctx, questions); cacheErr != nil {
			f.logger.Warn("question set not cached", "error", cacheErr)
		}
		return questions, false, nil
	}

	f.logger.Warn("question fetch failed, falling back to offline cache",
		"level", filter.Level, "error", netErr)

	cached, cacheErr := f.cache.GetQuizzes(ctx, filter.Level)
	if cacheErr != nil {
		return nil, false, fmt.Errorf("fetch questions: %w (cache fallback: %v)", netErr, cacheErr)
	}
	if len(cached) == 0 {
		return nil, false, fmt.Errorf("fetch questions: %w (cache empty)", netErr)
	}
	return filterByTags(cached, filter.Tags), true, nil
}

// filterByTags narrows a cached set to questions sharing at least one tag.
// The cache indexes by level only, so tags are applied here.
func filterByTags(questions []*quiz.Question, tags []string) []*quiz.Question {
	if len(tags) == 0 {
		return questions
	}
	want := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		want[t] = struct{}{}
	}
	var out []*quiz.Question
	for _, q := range questions {
		for _, t := range q.Tags {
			if _, ok := want[t]; ok {
				out = append(out, q)
				break
			}
		}
	}
	return out
}

// Ensure the fetcher satisfies the session's source contract.
var _ session.QuestionSource = (*Fetcher)(nil)
