// Package notify provides an explicit subscription registry for fan-out of
// in-process events. It replaces ambient module-level channel singletons: a
// Registry is constructed once and passed to whoever needs it, tracks a
// subscriber count per topic, and tears the topic down only when the count
// reaches zero.
package notify

import "sync"

// Registry fans values of type T out to subscribers, keyed by topic.
type Registry[T any] struct {
	mu     sync.Mutex
	topics map[string]*topic[T]
}

type topic[T any] struct {
	subscribers map[int]chan T
	nextID      int
	closed      bool
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{topics: make(map[string]*topic[T])}
}

// Subscribe registers interest in a topic and returns a receive channel plus
// a disposer. The disposer is idempotent; calling it removes the
// subscription, and the topic itself is discarded once its last subscriber
// is gone. The channel is buffered: slow subscribers miss updates rather
// than blocking the publisher.
func (r *Registry[T]) Subscribe(key string) (<-chan T, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.topics[key]
	if !ok {
		t = &topic[T]{subscribers: make(map[int]chan T)}
		r.topics[key] = t
	}

	id := t.nextID
	t.nextID++
	ch := make(chan T, 16)
	t.subscribers[id] = ch

	var once sync.Once
	dispose := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.unsubscribe(key, id)
		})
	}

	return ch, dispose
}

// unsubscribe removes one subscriber and discards the topic at zero.
// Caller holds r.mu.
func (r *Registry[T]) unsubscribe(key string, id int) {
	t, ok := r.topics[key]
	if !ok {
		return
	}
	if ch, ok := t.subscribers[id]; ok {
		delete(t.subscribers, id)
		if !t.closed {
			close(ch)
		}
	}
	if len(t.subscribers) == 0 {
		delete(r.topics, key)
	}
}

// Publish sends v to every subscriber of the topic. Subscribers whose
// buffers are full are skipped.
func (r *Registry[T]) Publish(key string, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.topics[key]
	if !ok || t.closed {
		return
	}

	for _, ch := range t.subscribers {
		select {
		case ch <- v:
		default:
			// Subscriber is slow, skip this update
		}
	}
}

// Close closes all subscriber channels for a topic, signalling completion.
// Subsequent publishes to the topic are dropped; disposers remain safe to
// call.
func (r *Registry[T]) Close(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.topics[key]
	if !ok || t.closed {
		return
	}
	t.closed = true
	for _, ch := range t.subscribers {
		close(ch)
	}
}

// SubscriberCount returns the number of active subscribers for a topic.
func (r *Registry[T]) SubscriberCount(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.topics[key]
	if !ok {
		return 0
	}
	return len(t.subscribers)
}

// TopicCount returns the number of live topics.
func (r *Registry[T]) TopicCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.topics)
}
