package history

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogsearch/internal/domain"
	"blogsearch/internal/eventbus"
	"blogsearch/internal/kvstore"
)

type failingBackend struct {
	getErr error
	putErr error
	puts   int
}

func (f *failingBackend) Get(string) ([]byte, error) { return nil, f.getErr }

func (f *failingBackend) Put(string, []byte) error {
	f.puts++
	return f.putErr
}

func TestAddDedupsAndPrepends(t *testing.T) {
	s := New(kvstore.NewMemoryStore(), "", nil)

	s.Add("vue")
	s.Add("react")
	s.Add("  vue ")
	assert.Equal(t, []string{"vue", "react"}, s.Items())
}

func TestAddIgnoresBlank(t *testing.T) {
	s := New(nil, "", nil)
	s.Add("")
	s.Add("   ")
	assert.Empty(t, s.Items())
}

func TestAddCapsAtMax(t *testing.T) {
	s := New(nil, "", nil)
	for i := 0; i < 15; i++ {
		s.Add(fmt.Sprintf("term%d", i))
	}
	items := s.Items()
	require.Len(t, items, MaxItems)
	assert.Equal(t, "term14", items[0])
	assert.Equal(t, "term5", items[MaxItems-1])
}

func TestRemoveAndClear(t *testing.T) {
	s := New(nil, "", nil)
	s.Add("a")
	s.Add("b")
	s.Add("c")

	s.Remove("b")
	assert.Equal(t, []string{"c", "a"}, s.Items())
	s.Remove("missing")
	assert.Equal(t, 2, s.Len())

	s.Clear()
	assert.Empty(t, s.Items())
}

func TestItemsIsACopy(t *testing.T) {
	s := New(nil, "", nil)
	s.Add("a")
	items := s.Items()
	items[0] = "mutated"
	assert.Equal(t, []string{"a"}, s.Items())
}

func TestPersistsUnderKey(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	s := New(kv, "", nil)
	s.Add("vue")
	s.Add("go")

	raw, err := kv.Get(DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["go","vue"]`, string(raw))

	s.Clear()
	raw, err = kv.Get(DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	reloaded := New(kv, "", nil)
	assert.Empty(t, reloaded.Items())
}

func TestLoadNormalizes(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	require.NoError(t, kv.Put("custom", []byte(`["a", " ", "b", "a", "c","d","e","f","g","h","i","j","k"]`)))

	s := New(kv, "custom", nil)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}, s.Items())
}

func TestCorruptOrFailingReadStartsEmpty(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	require.NoError(t, kv.Put(DefaultKey, []byte(`{"not":"a list"}`)))
	assert.Empty(t, New(kv, "", nil).Items())

	assert.Empty(t, New(&failingBackend{getErr: errors.New("denied")}, "", nil).Items())
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	backend := &failingBackend{putErr: errors.New("quota exceeded")}
	s := New(backend, "", nil)

	s.Add("vue")
	assert.Equal(t, []string{"vue"}, s.Items())
	assert.Equal(t, 1, backend.puts)
}

func TestMutationsPublishEvents(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	got := make(chan []string, 4)
	bus.Subscribe(eventbus.EventHistoryChanged, func(e eventbus.DomainEvent) {
		got <- e.(domain.HistoryChangedEvent).Items
	})

	s := New(nil, "", bus)
	s.Add("vue")

	select {
	case items := <-got:
		assert.Equal(t, []string{"vue"}, items)
	case <-time.After(2 * time.Second):
		t.Fatal("no history event")
	}
}
