package notify_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/jrazmi/taskwire/infrastructure/notify"
	"github.com/jrazmi/taskwire/sdk/logger"
)

func decode(t *testing.T, frame []byte) notify.Message {
	t.Helper()
	var m notify.Message
	if err := json.Unmarshal(frame, &m); err != nil {
		t.Fatalf("decode frame %s: %v", frame, err)
	}
	return m
}

func TestPublishFansOut(t *testing.T) {
	hub := notify.NewHub(logger.NewDiscard())
	a := hub.Subscribe()
	b := hub.Subscribe()

	hub.Publish(context.Background(), "taskDeleted", "task-1")

	for _, s := range []*notify.Subscription{a, b} {
		m := decode(t, <-s.Messages())
		if m.Event != "taskDeleted" || string(m.Data) != `"task-1"` {
			t.Fatalf("message = %s %s", m.Event, m.Data)
		}
	}
}

func TestNoReplayForLateSubscribers(t *testing.T) {
	hub := notify.NewHub(logger.NewDiscard())
	hub.Publish(context.Background(), "taskCreated", map[string]string{"id": "1"})

	late := hub.Subscribe()
	select {
	case frame := <-late.Messages():
		t.Fatalf("late subscriber received %s", frame)
	default:
	}
}

func TestOrderPreservedPerSubscriber(t *testing.T) {
	hub := notify.NewHub(logger.NewDiscard(), notify.WithBuffer(16))
	s := hub.Subscribe()

	for i := 0; i < 10; i++ {
		hub.Publish(context.Background(), "n", i)
	}

	for i := 0; i < 10; i++ {
		m := decode(t, <-s.Messages())
		var got int
		if err := json.Unmarshal(m.Data, &got); err != nil || got != i {
			t.Fatalf("message %d = %s", i, m.Data)
		}
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	var mu sync.Mutex
	var dropped int
	hub := notify.NewHub(logger.NewDiscard(),
		notify.WithBuffer(1),
		notify.WithPublishHook(func(event string, d, x int) {
			mu.Lock()
			dropped += x
			mu.Unlock()
		}))

	slow := hub.Subscribe()
	hub.Publish(context.Background(), "e", 1)
	hub.Publish(context.Background(), "e", 2)

	mu.Lock()
	defer mu.Unlock()
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if m := decode(t, <-slow.Messages()); string(m.Data) != "1" {
		t.Fatalf("kept message = %s, want 1", m.Data)
	}
}

func TestUnsubscribe(t *testing.T) {
	var counts []int
	hub := notify.NewHub(logger.NewDiscard(), notify.WithSubscriberCount(func(n int) { counts = append(counts, n) }))

	s := hub.Subscribe()
	hub.Unsubscribe(s)
	hub.Unsubscribe(s)

	if _, open := <-s.Messages(); open {
		t.Fatal("stream still open after unsubscribe")
	}
	if hub.Count() != 0 {
		t.Fatalf("count = %d, want 0", hub.Count())
	}
	if len(counts) != 2 || counts[0] != 1 || counts[1] != 0 {
		t.Fatalf("counts = %v, want [1 0]", counts)
	}

	hub.Publish(context.Background(), "e", 1)
}

func TestClose(t *testing.T) {
	hub := notify.NewHub(logger.NewDiscard())
	s := hub.Subscribe()

	hub.Close()
	hub.Close()

	if _, open := <-s.Messages(); open {
		t.Fatal("stream still open after close")
	}

	hub.Publish(context.Background(), "e", 1)

	after := hub.Subscribe()
	if _, open := <-after.Messages(); open {
		t.Fatal("subscription on closed hub should be closed")
	}
	hub.Unsubscribe(after)
}

func TestUnencodablePayloadIsDropped(t *testing.T) {
	hub := notify.NewHub(logger.NewDiscard())
	s := hub.Subscribe()

	hub.Publish(context.Background(), "bad", make(chan int))

	select {
	case frame := <-s.Messages():
		t.Fatalf("received %s for unencodable payload", frame)
	default:
	}
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	hub := notify.NewHub(logger.NewDiscard())
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s := hub.Subscribe()
			hub.Unsubscribe(s)
		}()
		go func(i int) {
			defer wg.Done()
			hub.Publish(context.Background(), "e", i)
		}(i)
	}

	wg.Wait()
	hub.Close()
}
