package event

import (
	"sync"
	"testing"
)

func TestBus_Subscribe(t *testing.T) {
	bus := NewBus()

	called := false
	id := bus.Subscribe(TypeHeartbeat, func(e Event) {
		called = true
	})

	if id == "" {
		t.Error("Subscribe should return a non-empty ID")
	}
	if bus.SubscriptionCount() != 1 {
		t.Errorf("Expected 1 subscription, got %d", bus.SubscriptionCount())
	}
	if called {
		t.Error("Handler should not be called until an event is published")
	}
}

func TestBus_Publish(t *testing.T) {
	bus := NewBus()

	var received Event
	bus.Subscribe(TypeStintAdded, func(e Event) {
		received = e
	})

	op := Operation{ID: "op-1", Actor: "a-1", Clock: 1, Kind: OpAdd, EntityID: "stint-1"}
	bus.Publish(NewStintAddedEvent(op))

	if received == nil {
		t.Fatal("Handler should have received the event")
	}
	if received.Type() != TypeStintAdded {
		t.Errorf("Expected event type %q, got %q", TypeStintAdded, received.Type())
	}
	if received.ActorID() != "a-1" {
		t.Errorf("Expected actor a-1, got %q", received.ActorID())
	}
}

func TestBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewBus()

	callCount := 0
	bus.Subscribe(TypeHeartbeat, func(e Event) { callCount++ })
	bus.Subscribe(TypeHeartbeat, func(e Event) { callCount++ })

	bus.Publish(NewHeartbeatEvent("a-1"))

	if callCount != 2 {
		t.Errorf("Expected both handlers to be called, got %d calls", callCount)
	}
}

func TestBus_PublishNoMatchingHandlers(t *testing.T) {
	bus := NewBus()

	bus.Subscribe(TypeUserIdle, func(e Event) {
		t.Error("Handler should not be called for non-matching event type")
	})

	bus.Publish(NewHeartbeatEvent("a-1"))
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus()

	var types []string
	bus.SubscribeAll(func(e Event) {
		types = append(types, e.Type())
	})

	bus.Publish(NewHeartbeatEvent("a-1"))
	bus.Publish(NewCursorMoveEvent("a-1", "stint-3"))
	bus.Publish(NewUserDisconnectEvent("a-1"))

	if len(types) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(types))
	}
	want := []string{TypeHeartbeat, TypeCursorMove, TypeUserDisconnect}
	for i, ty := range want {
		if types[i] != ty {
			t.Errorf("Event %d type = %q, want %q", i, types[i], ty)
		}
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	called := false
	id := bus.Subscribe(TypeHeartbeat, func(e Event) { called = true })

	if !bus.Unsubscribe(id) {
		t.Error("Unsubscribe should return true for a known ID")
	}
	if bus.Unsubscribe("bogus") {
		t.Error("Unsubscribe should return false for an unknown ID")
	}

	bus.Publish(NewHeartbeatEvent("a-1"))
	if called {
		t.Error("Unsubscribed handler should not be called")
	}
}

func TestBus_SubscriptionIDsNeverCollide(t *testing.T) {
	bus := NewBus()

	// Long-lived sessions churn through many subscriptions; a recycled ID
	// would make Unsubscribe remove the wrong handler.
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		id := bus.Subscribe(TypeHeartbeat, func(e Event) {})
		if seen[id] {
			t.Fatalf("subscription ID %q issued twice (iteration %d)", id, i)
		}
		seen[id] = true
		if !bus.Unsubscribe(id) {
			t.Fatalf("Unsubscribe(%q) failed at iteration %d", id, i)
		}
	}
}

func TestBus_PanickingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewBus()

	called := false
	bus.Subscribe(TypeHeartbeat, func(e Event) { panic("misbehaving subscriber") })
	bus.Subscribe(TypeHeartbeat, func(e Event) { called = true })

	bus.Publish(NewHeartbeatEvent("a-1"))

	if !called {
		t.Error("Second handler should run despite the first panicking")
	}
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	count := 0
	bus.SubscribeAll(func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bus.Publish(NewHeartbeatEvent("a-1"))
			}
		}()
	}
	wg.Wait()

	if count != 1000 {
		t.Errorf("Expected 1000 deliveries, got %d", count)
	}
}

func TestBus_Clear(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(TypeHeartbeat, func(e Event) {})
	bus.SubscribeAll(func(e Event) {})

	bus.Clear()

	if bus.SubscriptionCount() != 0 {
		t.Errorf("Expected 0 subscriptions after Clear, got %d", bus.SubscriptionCount())
	}
}

func TestOperationOrdering(t *testing.T) {
	tests := []struct {
		name string
		a, b Operation
		want bool
	}{
		{
			name: "lower clock first",
			a:    Operation{Clock: 1, Actor: "z"},
			b:    Operation{Clock: 2, Actor: "a"},
			want: true,
		},
		{
			name: "equal clock breaks tie on actor",
			a:    Operation{Clock: 3, Actor: "a"},
			b:    Operation{Clock: 3, Actor: "b"},
			want: true,
		},
		{
			name: "not before itself",
			a:    Operation{Clock: 3, Actor: "a"},
			b:    Operation{Clock: 3, Actor: "a"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Before(tt.b); got != tt.want {
				t.Errorf("Before() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOperationEventInterface(t *testing.T) {
	op := Operation{ID: "op-1", Actor: "a-1", Kind: OpModify, EntityID: "stint-2"}

	var events []Event = []Event{
		NewStintAddedEvent(op),
		NewStintModifiedEvent(op),
		NewStintDeletedEvent(op),
	}

	for _, e := range events {
		oe, ok := e.(OperationEvent)
		if !ok {
			t.Errorf("%s should implement OperationEvent", e.Type())
			continue
		}
		if oe.Operation().EntityID != "stint-2" {
			t.Errorf("%s carried wrong operation", e.Type())
		}
	}
}
