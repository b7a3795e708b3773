package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAsyncDispatcherDeliversAllEvents(t *testing.T) {
	d := NewAsyncDispatcher(zap.NewNop(), 64, 4)

	var mu sync.Mutex
	received := make(map[string]bool)
	d.Subscribe(EventRequestCreated, func(_ context.Context, event Event) error {
		mu.Lock()
		defer mu.Unlock()
		received[event.ID] = true
		return nil
	})

	const total = 50
	for i := 0; i < total; i++ {
		err := d.Publish(context.Background(), Event{
			ID:   string(rune('a'+i%26)) + string(rune('0'+i/26)),
			Type: EventRequestCreated,
		})
		require.NoError(t, err)
	}
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	// queue capacity exceeds the publish count, nothing may be dropped
	require.Len(t, received, total)
}

func TestAsyncDispatcherFanOut(t *testing.T) {
	d := NewAsyncDispatcher(zap.NewNop(), 8, 1)

	var mu sync.Mutex
	calls := 0
	handler := func(_ context.Context, _ Event) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return nil
	}
	d.Subscribe(EventRequestAssigned, handler)
	d.Subscribe(EventRequestAssigned, handler)

	require.NoError(t, d.Publish(context.Background(), Event{ID: "e1", Type: EventRequestAssigned}))
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 2, calls)
}

func TestAsyncDispatcherHandlerErrorDoesNotStopOthers(t *testing.T) {
	d := NewAsyncDispatcher(zap.NewNop(), 8, 1)

	var mu sync.Mutex
	secondCalled := false
	d.Subscribe(EventRequestCreated, func(_ context.Context, _ Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventRequestCreated, func(_ context.Context, _ Event) error {
		mu.Lock()
		defer mu.Unlock()
		secondCalled = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{ID: "e1", Type: EventRequestCreated}))
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	require.True(t, secondCalled)
}

func TestAsyncDispatcherIgnoresUnknownType(t *testing.T) {
	d := NewAsyncDispatcher(zap.NewNop(), 8, 1)

	called := false
	d.Subscribe(EventRequestCreated, func(_ context.Context, _ Event) error {
		called = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{ID: "e1", Type: EventRequestReminderDue}))
	d.Close()
	require.False(t, called)
}

func TestAsyncDispatcherPublishNeverBlocks(t *testing.T) {
	// one stuck worker and a full queue: publish must still return
	block := make(chan struct{})
	d := NewAsyncDispatcher(zap.NewNop(), 1, 1)
	d.Subscribe(EventRequestCreated, func(_ context.Context, _ Event) error {
		<-block
		return nil
	})

	for i := 0; i < 10; i++ {
		require.NoError(t, d.Publish(context.Background(), Event{ID: "e", Type: EventRequestCreated}))
	}
	close(block)
	d.Close()
}
