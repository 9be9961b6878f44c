// Package notify is an in-process fan-out of named events to live
// subscribers. Delivery is best effort with no replay: a subscriber only
// sees events published while it is registered, and one that falls behind
// its buffer misses events rather than slowing publishers down.
package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jrazmi/taskwire/sdk/logger"
)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 64

// Message is the frame every subscriber receives.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Subscription is one subscriber's ordered stream of encoded Messages.
type Subscription struct {
	ch chan []byte
}

// Messages yields encoded Messages in publish order. It is closed on
// Unsubscribe or when the hub closes.
func (s *Subscription) Messages() <-chan []byte {
	return s.ch
}

// Hub fans published events out to its subscribers.
type Hub struct {
	log       *logger.Logger
	buffer    int
	onCount   func(n int)
	onPublish func(event string, delivered, dropped int)

	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
}

// Option configures a Hub.
type Option func(*Hub)

// WithBuffer sets the per-subscriber queue length.
func WithBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithSubscriberCount registers fn to receive the subscriber count after
// every change.
func WithSubscriberCount(fn func(n int)) Option {
	return func(h *Hub) {
		h.onCount = fn
	}
}

// WithPublishHook registers fn to run after each fan-out.
func WithPublishHook(fn func(event string, delivered, dropped int)) Option {
	return func(h *Hub) {
		h.onPublish = fn
	}
}

func NewHub(log *logger.Logger, opts ...Option) *Hub {
	h := &Hub{
		log:    log,
		buffer: DefaultBuffer,
		subs:   make(map[*Subscription]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers a new subscriber. On a closed hub the returned
// subscription is already closed.
func (h *Hub) Subscribe() *Subscription {
	s := &Subscription{ch: make(chan []byte, h.buffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(s.ch)
		return s
	}
	h.subs[s] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()

	h.count(n)
	return s
}

// Unsubscribe removes s and closes its stream. Safe to call more than once.
func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	if _, ok := h.subs[s]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.subs, s)
	close(s.ch)
	n := len(h.subs)
	h.mu.Unlock()

	h.count(n)
}

// Publish encodes payload once and queues it for every current subscriber
// without blocking. Encoding failures are logged and dropped.
func (h *Hub) Publish(ctx context.Context, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.ErrorContext(ctx, "notify: encode payload", "event", event, "error", err)
		return
	}

	frame, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		h.log.ErrorContext(ctx, "notify: encode message", "event", event, "error", err)
		return
	}

	var delivered, dropped int

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	for s := range h.subs {
		select {
		case s.ch <- frame:
			delivered++
		default:
			dropped++
		}
	}
	h.mu.RUnlock()

	if dropped > 0 {
		h.log.WarnContext(ctx, "notify: slow subscribers missed event", "event", event, "dropped", dropped)
	}
	h.log.DebugContext(ctx, "notify: published", "event", event, "delivered", delivered)

	if h.onPublish != nil {
		h.onPublish(event, delivered, dropped)
	}
}

// Count returns the number of registered subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription. Later publishes are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for s := range h.subs {
		close(s.ch)
		delete(h.subs, s)
	}
	h.mu.Unlock()

	h.count(0)
}

func (h *Hub) count(n int) {
	if h.onCount != nil {
		h.onCount(n)
	}
}
