package broadcast

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type event struct {
	ID   string
	Seen int
}

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	b := New[event]()

	id1, _ := b.Subscribe()
	id2, _ := b.Subscribe()
	if id1 == id2 {
		t.Fatal("expected distinct subscriber ids")
	}
	if b.SubscriberCount() != 2 {
		t.Errorf("expected 2 subscribers, got %d", b.SubscriberCount())
	}

	b.Unsubscribe(id1)
	b.Unsubscribe(id1)
	if b.SubscriberCount() != 1 {
		t.Errorf("expected 1 subscriber, got %d", b.SubscriberCount())
	}
	b.Unsubscribe(id2)
}

func TestBroadcaster_Publish(t *testing.T) {
	b := New[event]()
	id1, ch1 := b.Subscribe()
	id2, ch2 := b.Subscribe()
	defer b.Unsubscribe(id1)
	defer b.Unsubscribe(id2)

	b.Publish(event{ID: "fema_4834"})

	for i, ch := range []<-chan event{ch1, ch2} {
		select {
		case got := <-ch:
			if got.ID != "fema_4834" {
				t.Errorf("subscriber %d: got %q", i, got.ID)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: timeout", i)
		}
	}
}

func TestBroadcaster_SlowSubscriber(t *testing.T) {
	b := New[event]()
	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	for i := 0; i < DefaultBuffer+5; i++ {
		b.Publish(event{Seen: i})
	}

	if len(ch) != DefaultBuffer {
		t.Errorf("expected full buffer of %d, got %d", DefaultBuffer, len(ch))
	}
	if b.Dropped() != 5 {
		t.Errorf("expected 5 dropped, got %d", b.Dropped())
	}
	if first := <-ch; first.Seen != 0 {
		t.Errorf("expected oldest value first, got %d", first.Seen)
	}
}

func TestBroadcaster_ConcurrentSubscribePublish(t *testing.T) {
	b := New[event]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, ch := b.Subscribe()
			done := make(chan struct{})
			go func() {
				defer close(done)
				for range ch {
				}
			}()
			time.Sleep(2 * time.Millisecond)
			b.Unsubscribe(id)
			<-done
		}()
	}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			b.Publish(event{Seen: n})
		}(i)
	}
	wg.Wait()

	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.SubscriberCount())
	}
}

func TestBroadcaster_Close(t *testing.T) {
	b := New[event]()
	var channels []<-chan event
	for i := 0; i < 3; i++ {
		_, ch := b.Subscribe()
		channels = append(channels, ch)
	}

	b.Close()

	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after close, got %d", b.SubscriberCount())
	}
	for i, ch := range channels {
		if _, ok := <-ch; ok {
			t.Errorf("channel %d should be closed", i)
		}
	}

	_, late := b.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscribe after close should return a closed channel")
	}
	b.Publish(event{ID: "ignored"})
}
