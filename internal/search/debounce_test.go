package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogsearch/internal/domain"
)

type recordingMatcher struct {
	mu      sync.Mutex
	queries []string
}

func (m *recordingMatcher) Index(docs []domain.Document) error { return nil }

func (m *recordingMatcher) Search(query string, limit int) []RawMatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	return nil
}

func (m *recordingMatcher) seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

func TestDebounceRunsOnlyLastQuery(t *testing.T) {
	rec := &recordingMatcher{}
	e := NewEngine(&countingSource{docs: blogDocs()}, WithMatcherFactory(func() Matcher { return rec }))
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	done := make(chan struct{})
	run := func(q string) func() {
		return func() {
			e.Search(context.Background(), q)
			close(done)
		}
	}
	d.Trigger(run("a"))
	d.Trigger(run("ab"))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced search never ran")
	}
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, []string{"ab"}, rec.seen())
}

func TestDebounceCancel(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var mu sync.Mutex
	ran := false

	d.Trigger(func() {
		mu.Lock()
		ran = true
		mu.Unlock()
	})
	assert.True(t, d.Pending())
	d.Cancel()
	assert.False(t, d.Pending())

	time.Sleep(40 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, ran)
}

func TestDebounceStopRefusesTriggers(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	d.Stop()

	d.Trigger(func() { t.Error("ran after stop") })
	assert.False(t, d.Pending())
	time.Sleep(20 * time.Millisecond)
}

func TestDebounceClearsPendingAfterRun(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	ran := make(chan struct{})
	d.Trigger(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("never ran")
	}
	require.Eventually(t, func() bool { return !d.Pending() }, time.Second, time.Millisecond)
}
