package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	t.Parallel()
	b := NewBus()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish(Event{Type: Add, URL: "https://a.test"})
	b.Publish(Event{Type: Remove, URL: "https://a.test"})

	ev := <-ch
	assert.Equal(t, Add, ev.Type)
	ev = <-ch
	assert.Equal(t, Remove, ev.Type)
}

func TestPublishOrderPerSender(t *testing.T) {
	t.Parallel()
	b := NewBus()
	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < 5; i++ {
		b.Publish(Event{Type: Update, URL: "https://a.test"})
	}
	b.Publish(Event{Type: OrderChanged})

	var got []Type
	for i := 0; i < 6; i++ {
		got = append(got, (<-ch).Type)
	}
	assert.Equal(t, OrderChanged, got[5], "FIFO per sender")
}

func TestCancelClosesChannel(t *testing.T) {
	t.Parallel()
	b := NewBus()
	ch, cancel := b.Subscribe()
	cancel()
	// double cancel is safe
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// publishing after cancel reaches no one and does not panic
	b.Publish(Event{Type: Add, URL: "https://a.test"})
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	t.Parallel()
	b := NewBus()
	ch, cancel := b.Subscribe()
	defer cancel()

	// overflow the buffer; Publish must not block
	for i := 0; i < subscriberBuffer*2; i++ {
		b.Publish(Event{Type: Add, URL: "https://a.test"})
	}

	n := 0
	for {
		select {
		case <-ch:
			n++
			continue
		default:
		}
		break
	}
	require.Equal(t, subscriberBuffer, n, "at most the buffered events are delivered")
}
