// Package history keeps the most recent successful search terms.
package history

import (
	"encoding/json"
	"log"
	"strings"
	"sync"

	"blogsearch/internal/domain"
	"blogsearch/internal/eventbus"
)

const (
	// DefaultKey is the persistence key of the history list
	DefaultKey = "blog-search-history"
	// MaxItems caps the list length
	MaxItems = 10
)

// Persistence is the key/value capability the store writes through
type Persistence interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// Store is an ordered, deduplicated, most-recent-first list of terms. The
// in-memory list is authoritative; persistence failures are logged only.
type Store struct {
	mu      sync.RWMutex
	items   []string
	backend Persistence
	key     string
	bus     eventbus.EventBus
}

// New loads the list stored under key. Absent, corrupt or unreadable data
// starts an empty list. backend and bus may be nil.
func New(backend Persistence, key string, bus eventbus.EventBus) *Store {
	if key == "" {
		key = DefaultKey
	}
	if bus == nil {
		bus = eventbus.Null()
	}
	s := &Store{backend: backend, key: key, bus: bus}
	s.items = s.load()
	return s
}

func (s *Store) load() []string {
	if s.backend == nil {
		return nil
	}
	data, err := s.backend.Get(s.key)
	if err != nil {
		log.Printf("Failed to read search history: %v", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("Ignoring unreadable search history: %v", err)
		return nil
	}
	return normalize(raw)
}

// normalize drops blank entries and duplicates, keeping the first
// occurrence, and caps the list
func normalize(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	var out []string
	for _, term := range raw {
		term = strings.TrimSpace(term)
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		out = append(out, term)
		if len(out) == MaxItems {
			break
		}
	}
	return out
}

// Items returns a copy of the list
func (s *Store) Items() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.items...)
}

// Len returns the number of terms
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Add moves term to the front. Blank terms are ignored.
func (s *Store) Add(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	s.mutate(func(items []string) []string {
		out := []string{term}
		for _, it := range items {
			if it != term {
				out = append(out, it)
			}
		}
		if len(out) > MaxItems {
			out = out[:MaxItems]
		}
		return out
	})
}

// Remove deletes term
func (s *Store) Remove(term string) {
	s.mutate(func(items []string) []string {
		var out []string
		for _, it := range items {
			if it != term {
				out = append(out, it)
			}
		}
		return out
	})
}

// Clear empties the list
func (s *Store) Clear() {
	s.mutate(func([]string) []string { return nil })
}

func (s *Store) mutate(fn func([]string) []string) {
	s.mu.Lock()
	s.items = fn(s.items)
	snapshot := append([]string(nil), s.items...)
	s.persist(snapshot)
	s.mu.Unlock()

	s.bus.Publish(domain.HistoryChangedEvent{Items: snapshot})
}

// persist runs under the write lock so writes land in mutation order
func (s *Store) persist(items []string) {
	if s.backend == nil {
		return
	}
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		log.Printf("Failed to encode search history: %v", err)
		return
	}
	if err := s.backend.Put(s.key, data); err != nil {
		log.Printf("Failed to save search history: %v", err)
	}
}
