package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	p := NewPublisher()
	assert.NotPanics(t, func() { p.Publish("warning", nil) })
	assert.Equal(t, 0, p.Subscribers())
}

func TestPublishFansOut(t *testing.T) {
	p := NewPublisher()
	a, cancelA := p.Subscribe(4)
	defer cancelA()
	b, cancelB := p.Subscribe(4)
	defer cancelB()

	p.Publish("session-start", 1)
	p.Publish("timer-tick", 2)

	for _, ch := range []<-chan Event{a, b} {
		first := <-ch
		second := <-ch
		assert.Equal(t, Event{Name: "session-start", Payload: 1}, first)
		assert.Equal(t, Event{Name: "timer-tick", Payload: 2}, second)
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	p := NewPublisher()
	ch, cancel := p.Subscribe(1)
	defer cancel()

	p.Publish("timer-tick", 1)
	p.Publish("timer-tick", 2)

	got := <-ch
	assert.Equal(t, 1, got.Payload)
	select {
	case extra := <-ch:
		t.Fatalf("expected dropped event, got %v", extra)
	default:
	}
}

func TestCancelClosesChannel(t *testing.T) {
	p := NewPublisher()
	ch, cancel := p.Subscribe(1)
	cancel()
	cancel()

	_, ok := <-ch
	require.False(t, ok)
	assert.Equal(t, 0, p.Subscribers())
	assert.NotPanics(t, func() { p.Publish("warning", nil) })
}

func TestCloseClosesAllSubscribers(t *testing.T) {
	p := NewPublisher()
	a, cancelA := p.Subscribe(1)
	b, _ := p.Subscribe(1)
	p.Close()

	_, okA := <-a
	_, okB := <-b
	assert.False(t, okA)
	assert.False(t, okB)
	assert.NotPanics(t, cancelA)

	late, _ := p.Subscribe(1)
	_, ok := <-late
	assert.False(t, ok)
}
