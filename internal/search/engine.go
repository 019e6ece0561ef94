// Package search builds the in-memory document index and answers queries
// against it.
package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"blogsearch/internal/domain"
	"blogsearch/internal/eventbus"
	"blogsearch/internal/source"
)

// DefaultLimit caps the number of results per query
const DefaultLimit = 10

// Failure classes. All of them are downgraded to "no results" by Search.
var (
	ErrFetch      = errors.New("document fetch failed")
	ErrIndexBuild = errors.New("index build failed")
	ErrMatch      = errors.New("match failed")
)

// Option configures an Engine
type Option func(*Engine)

// WithMatcherFactory replaces the default fuzzy matcher
func WithMatcherFactory(fn func() Matcher) Option {
	return func(e *Engine) { e.newMatcher = fn }
}

// WithLimit sets the maximum number of results. Values above DefaultLimit
// are clamped to it.
func WithLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.limit = min(n, DefaultLimit)
		}
	}
}

// WithBus publishes index and search events on bus
func WithBus(bus eventbus.EventBus) Option {
	return func(e *Engine) {
		if bus != nil {
			e.bus = bus
		}
	}
}

type snapshot struct {
	matcher Matcher
	docs    []domain.Document
}

// Engine owns the index. The index is built from the source on first use and
// reused until Invalidate is called.
type Engine struct {
	source     source.DocumentSource
	newMatcher func() Matcher
	limit      int
	bus        eventbus.EventBus

	mu         sync.RWMutex
	current    *snapshot
	generation uint64
	builds     singleflight.Group
}

// NewEngine creates an engine over src
func NewEngine(src source.DocumentSource, opts ...Option) *Engine {
	e := &Engine{
		source:     src,
		newMatcher: func() Matcher { return NewFuzzyMatcher() },
		limit:      DefaultLimit,
		bus:        eventbus.Null(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Limit returns the result cap
func (e *Engine) Limit() int {
	return e.limit
}

// Search returns up to Limit results for query, best first. Blank queries
// return nil without touching the index. Failures are logged and yield nil.
func (e *Engine) Search(ctx context.Context, query string) []domain.SearchResult {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	id := uuid.NewString()
	results, err := e.Query(ctx, query)
	if err != nil {
		log.Printf("Search %s for %q failed: %v", id, query, err)
		e.bus.Publish(domain.SearchFailedEvent{SearchID: id, Query: query, Err: err})
		return nil
	}

	e.bus.Publish(domain.SearchCompletedEvent{SearchID: id, Query: query, Results: len(results)})
	return results
}

// Query is Search with the failure reported instead of swallowed
func (e *Engine) Query(ctx context.Context, query string) (results []domain.SearchResult, err error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	snap, err := e.ensureIndex(ctx)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("%w: %v", ErrMatch, r)
		}
	}()

	raw := snap.matcher.Search(query, e.limit)
	results = make([]domain.SearchResult, 0, len(raw))
	for _, m := range raw {
		if m.Index < 0 || m.Index >= len(snap.docs) {
			return nil, fmt.Errorf("%w: result index %d out of range", ErrMatch, m.Index)
		}
		score := 0.0
		if m.Score != nil {
			score = *m.Score
		}
		results = append(results, domain.SearchResult{
			Document: snap.docs[m.Index],
			Score:    score,
			Matches:  m.Matches,
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score < results[j].Score })
	if len(results) > e.limit {
		results = results[:e.limit]
	}
	return results, nil
}

// Prewarm builds the index if it is not built yet
func (e *Engine) Prewarm(ctx context.Context) error {
	_, err := e.ensureIndex(ctx)
	if err != nil {
		log.Printf("Index prewarm failed: %v", err)
	}
	return err
}

// Ready reports whether an index is cached
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current != nil
}

// Documents returns the documents of the cached index
func (e *Engine) Documents() []domain.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.current == nil {
		return nil
	}
	out := make([]domain.Document, len(e.current.docs))
	copy(out, e.current.docs)
	return out
}

// Categories lists the categories of the cached index. It is empty until the
// first build.
func (e *Engine) Categories() []string {
	return source.Categories(e.Documents())
}

// Invalidate drops the cached index; the next search rebuilds it. A build
// already in flight completes for its callers but is not cached.
func (e *Engine) Invalidate(reason string) {
	e.mu.Lock()
	e.generation++
	e.current = nil
	e.mu.Unlock()
	e.builds.Forget("index")

	log.Printf("Search index invalidated: %s", reason)
	e.bus.Publish(domain.IndexInvalidatedEvent{Reason: reason})
}

// ensureIndex returns the cached index or joins the single in-flight build
func (e *Engine) ensureIndex(ctx context.Context) (*snapshot, error) {
	e.mu.RLock()
	snap, gen := e.current, e.generation
	e.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	// The build outlives any single caller's context
	buildCtx := context.WithoutCancel(ctx)
	ch := e.builds.DoChan("index", func() (interface{}, error) {
		return e.build(buildCtx, gen)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*snapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Engine) build(ctx context.Context, gen uint64) (snap *snapshot, err error) {
	// A flight that finished between the caller's check and DoChan
	e.mu.RLock()
	snap = e.current
	e.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	docs, err := e.source.FetchPublishedDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	m := e.newMatcher()
	if err := indexSafely(m, docs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexBuild, err)
	}

	snap = &snapshot{matcher: m, docs: docs}
	e.mu.Lock()
	if e.generation == gen {
		e.current = snap
	}
	e.mu.Unlock()

	log.Printf("Search index built with %d documents", len(docs))
	e.bus.Publish(domain.IndexBuiltEvent{Documents: len(docs)})
	return snap, nil
}

func indexSafely(m Matcher, docs []domain.Document) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("matcher panicked: %v", r)
		}
	}()
	return m.Index(docs)
}
