package event

import "testing"

func TestBus_PublishOrder(t *testing.T) {
	bus := NewBus[int]()

	var got []string
	bus.Subscribe(func(v int) { got = append(got, "first") })
	bus.Subscribe(func(v int) { got = append(got, "second") })

	bus.Publish(1)

	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("expected handlers in subscription order, got %v", got)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus[string]()

	calls := 0
	id := bus.Subscribe(func(string) { calls++ })
	bus.Publish("a")
	bus.Unsubscribe(id)
	bus.Publish("b")
	bus.Unsubscribe(id)

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if bus.Len() != 0 {
		t.Errorf("expected no subscribers, got %d", bus.Len())
	}
}

func TestBus_SubscribeDuringPublish(t *testing.T) {
	bus := NewBus[int]()

	late := 0
	bus.Subscribe(func(int) {
		bus.Subscribe(func(int) { late++ })
	})

	bus.Publish(1)
	if late != 0 {
		t.Errorf("handler added during publish ran in the same publish")
	}

	bus.Publish(2)
	if late != 1 {
		t.Errorf("expected late handler to run once, got %d", late)
	}
}

func TestBus_UnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus[int]()

	var second Subscription
	calls := 0
	bus.Subscribe(func(int) { bus.Unsubscribe(second) })
	second = bus.Subscribe(func(int) { calls++ })

	bus.Publish(1)
	if calls != 1 {
		t.Errorf("removal during publish should apply to the next publish, got %d calls", calls)
	}

	bus.Publish(2)
	if calls != 1 {
		t.Errorf("expected removed handler to stay silent, got %d calls", calls)
	}
}
