// Package live provides an observable value: a Feed holds the latest
// published value and hands it to every subscriber.
package live

import "sync"

// Feed publishes successive values of T to its subscribers.
// Published values are shared between subscribers and must be treated as read-only.
type Feed[T any] struct {
	mu      sync.Mutex
	current T
	subs    map[*Subscription[T]]struct{}
	closed  bool
}

// NewFeed creates a feed whose current value is initial.
func NewFeed[T any](initial T) *Feed[T] {
	return &Feed[T]{
		current: initial,
		subs:    make(map[*Subscription[T]]struct{}),
	}
}

// Publish replaces the current value and delivers it to all subscribers.
// It never blocks: a subscriber that has not consumed the previous value
// gets it replaced by v.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.current = v
	for sub := range f.subs {
		sub.offer(v)
	}
}

// Current returns the most recently published value.
func (f *Feed[T]) Current() T {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.current
}

// Subscribe registers a new subscription. The current value is queued on it
// immediately. Subscribing to a closed feed returns a closed subscription.
func (f *Feed[T]) Subscribe() *Subscription[T] {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := &Subscription[T]{feed: f, ch: make(chan T, 1)}
	if f.closed {
		close(sub.ch)
		sub.done = true
		return sub
	}
	sub.offer(f.current)
	f.subs[sub] = struct{}{}
	return sub
}

// Close ends every subscription. Later publishes are dropped.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for sub := range f.subs {
		sub.finish()
	}
	f.subs = nil
}

func (f *Feed[T]) unsubscribe(sub *Subscription[T]) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sub.done {
		return
	}
	delete(f.subs, sub)
	sub.finish()
}

// Subscription receives values published on a Feed.
type Subscription[T any] struct {
	feed *Feed[T]
	ch   chan T
	done bool // guarded by feed.mu
}

// Updates returns the channel of published values. It is closed when the
// subscription or its feed is closed.
func (s *Subscription[T]) Updates() <-chan T {
	return s.ch
}

// Close detaches the subscription from its feed. Safe to call more than once.
func (s *Subscription[T]) Close() {
	s.feed.unsubscribe(s)
}

// offer keeps at most one pending value, the newest. Caller holds feed.mu,
// so no other sender races with the drain.
func (s *Subscription[T]) offer(v T) {
	select {
	case <-s.ch:
	default:
	}
	s.ch <- v
}

func (s *Subscription[T]) finish() {
	s.done = true
	close(s.ch)
}
