package eventbus

import (
	"sync/atomic"
	"testing"
	"time"

	"blogsearch/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscriber(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan DomainEvent, 1)
	b.Subscribe(EventPanelOpened, func(e DomainEvent) { got <- e })

	b.Publish(domain.PanelOpenedEvent{})

	select {
	case e := <-got:
		assert.Equal(t, EventPanelOpened, e.Type())
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	defer b.Close()

	var calls atomic.Int32
	unsubscribe := b.Subscribe(EventIndexBuilt, func(DomainEvent) { calls.Add(1) })
	other := make(chan struct{}, 1)
	b.Subscribe(EventIndexBuilt, func(DomainEvent) { other <- struct{}{} })

	unsubscribe()
	b.Publish(domain.IndexBuiltEvent{Documents: 3})

	select {
	case <-other:
	case <-time.After(2 * time.Second):
		t.Fatal("remaining subscriber not called")
	}
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int32(0), calls.Load())
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	b := New()
	b.Close()
	assert.NotPanics(t, func() { b.Publish(domain.PanelOpenedEvent{}) })
	assert.NotPanics(t, b.Close)
}
