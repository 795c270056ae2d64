package log

import (
	"strings"
	"sync"
	"sync/atomic"
)

const subscriptionBufferSize = 32

// Publisher is an [io.Writer] that fans out log lines to subscribers.
//
// Each call to [Publisher.Write] trims the input to one line and delivers
// it to every active [Subscription] via a buffered channel with ring-buffer
// semantics: when a subscriber's channel is full the oldest line is dropped
// so Write never blocks. Safe for concurrent use.
//
// Create instances with [NewPublisher].
type Publisher struct {
	subscribers []*Subscription
	mu          sync.Mutex
	closed      bool
}

// NewPublisher creates a [Publisher].
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Write delivers b as one trimmed line to all active subscribers. When a
// subscriber's channel is full the oldest line is dropped to make room.
// Closed subscriptions are compacted out of the subscriber list. Write
// always returns len(b), nil.
func (p *Publisher) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return len(b), nil
	}

	line := strings.TrimRight(string(b), "\r\n")

	// Compact closed subscriptions and deliver in one pass.
	alive := p.subscribers[:0]
	for _, sub := range p.subscribers {
		if sub.closed.Load() {
			close(sub.ch)
			continue
		}
		// Ring-buffer: drop oldest if full. The receive and resend are
		// both non-blocking because the consumer may drain concurrently.
		select {
		case sub.ch <- line:
		default:
			select {
			case <-sub.ch:
			default:
			}

			select {
			case sub.ch <- line:
			default:
			}
		}

		alive = append(alive, sub)
	}
	// Clear trailing references for GC.
	for i := len(alive); i < len(p.subscribers); i++ {
		p.subscribers[i] = nil
	}

	p.subscribers = alive

	return len(b), nil
}

// Subscribe creates and registers a new [Subscription]. If the Publisher is
// already closed the returned subscription's channel is immediately closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{
		ch: make(chan string, subscriptionBufferSize),
	}

	if p.closed {
		close(sub.ch)

		return sub
	}

	p.subscribers = append(p.subscribers, sub)

	return sub
}

// Close marks the Publisher as closed, closes all subscription channels,
// and releases the subscriber list. Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true

	for _, sub := range p.subscribers {
		if !sub.closed.Load() {
			close(sub.ch)
		}
	}

	p.subscribers = nil

	return nil
}

// Subscription receives log lines from a [Publisher].
type Subscription struct {
	ch     chan string
	closed atomic.Bool
}

// C returns the channel log lines are delivered on. The channel is closed
// when the subscription or its publisher closes.
func (s *Subscription) C() <-chan string {
	return s.ch
}

// Close marks the subscription closed. The publisher compacts it out and
// closes its channel on the next write. Idempotent.
func (s *Subscription) Close() {
	s.closed.Store(true)
}
