package eventbus

import "testing"

func TestPublishSubscribe(t *testing.T) {
	bus := New(16)
	sub := bus.Subscribe()
	defer sub.Close()

	count := bus.Publish(SystemStarted{Mode: "dry-run"})
	if count != 1 {
		t.Fatalf("Publish() delivered = %d, want 1", count)
	}

	got := <-sub.C
	started, ok := got.(SystemStarted)
	if !ok {
		t.Fatalf("received %T, want SystemStarted", got)
	}
	if started.Mode != "dry-run" {
		t.Errorf("Mode = %q, want %q", started.Mode, "dry-run")
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	bus := New(16)

	count := bus.Publish(EmergencyStop{Reason: "test"})
	if count != 0 {
		t.Errorf("Publish() with no subscribers = %d, want 0", count)
	}
}

func TestPublishOrderPreserved(t *testing.T) {
	bus := New(32)
	sub1 := bus.Subscribe()
	defer sub1.Close()
	sub2 := bus.Subscribe()
	defer sub2.Close()

	const n = 10
	for i := 0; i < n; i++ {
		bus.Publish(TradeExecuted{ID: string(rune('a' + i))})
	}

	for _, sub := range []*Subscription{sub1, sub2} {
		for i := 0; i < n; i++ {
			got := <-sub.C
			ev := got.(TradeExecuted)
			if want := string(rune('a' + i)); ev.ID != want {
				t.Fatalf("event %d: ID = %q, want %q", i, ev.ID, want)
			}
		}
	}
}

func TestLaggingSubscriberDropsEvents(t *testing.T) {
	bus := New(2)
	sub := bus.Subscribe()
	defer sub.Close()

	for i := 0; i < 5; i++ {
		bus.Publish(HealthCheck{TotalTrades: uint64(i)})
	}

	// Buffer holds only the first two; the rest were dropped.
	received := 0
	for {
		select {
		case <-sub.C:
			received++
		default:
			if received != 2 {
				t.Errorf("received %d events, want 2", received)
			}
			return
		}
	}
}

func TestCloseDropsAllSubscriptions(t *testing.T) {
	bus := New(16)
	sub1 := bus.Subscribe()
	sub2 := bus.Subscribe()

	bus.Close()

	for i, sub := range []*Subscription{sub1, sub2} {
		if _, ok := <-sub.C; ok {
			t.Fatalf("subscription %d still open after bus Close", i)
		}
	}
	if got := bus.SubscriberCount(); got != 0 {
		t.Fatalf("SubscriberCount() after Close = %d, want 0", got)
	}
	if count := bus.Publish(SystemStopping{Reason: "shutdown"}); count != 0 {
		t.Fatalf("Publish() after Close delivered = %d, want 0", count)
	}

	// Closing a subscription after the bus shut down must not panic.
	sub1.Close()
}

func TestSubscriberCount(t *testing.T) {
	bus := New(16)
	if got := bus.SubscriberCount(); got != 0 {
		t.Fatalf("SubscriberCount() = %d, want 0", got)
	}

	sub1 := bus.Subscribe()
	sub2 := bus.Subscribe()
	if got := bus.SubscriberCount(); got != 2 {
		t.Fatalf("SubscriberCount() = %d, want 2", got)
	}

	sub1.Close()
	if got := bus.SubscriberCount(); got != 1 {
		t.Fatalf("SubscriberCount() after close = %d, want 1", got)
	}
	sub2.Close()
}
