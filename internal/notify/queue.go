package notify

import (
	"sync"
	"time"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
)

// DefaultTTL is the fixed auto-clear interval for transient messages.
const DefaultTTL = 3000 * time.Millisecond

type Notification struct {
	Message   string
	Kind      Kind
	ExpiresAt time.Time
}

// Queue holds at most one live notification. A new message overwrites
// whatever is showing and restarts the expiry timer; there is no
// queueing. The timer lives in a single reducer goroutine so show and
// expiry never race.
type Queue struct {
	mu      sync.RWMutex
	current *Notification

	ttl  time.Duration
	in   chan Notification
	quit chan struct{}
	done chan struct{}
}

func NewQueue(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	q := &Queue{
		ttl:  ttl,
		in:   make(chan Notification),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

// Show replaces the current notification and resets its expiry.
func (q *Queue) Show(message string, kind Kind) {
	n := Notification{
		Message:   message,
		Kind:      kind,
		ExpiresAt: time.Now().Add(q.ttl),
	}
	select {
	case q.in <- n:
	case <-q.quit:
	}
}

// Success is shorthand for Show with the success kind.
func (q *Queue) Success(message string) { q.Show(message, KindSuccess) }

// Error is shorthand for Show with the error kind.
func (q *Queue) Error(message string) { q.Show(message, KindError) }

// Current returns the visible notification, or nil.
func (q *Queue) Current() *Notification {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.current == nil {
		return nil
	}
	copied := *q.current
	return &copied
}

// Close stops the reducer. Pending notifications are dropped.
func (q *Queue) Close() {
	close(q.quit)
	<-q.done
}

func (q *Queue) run() {
	defer close(q.done)

	timer := time.NewTimer(q.ttl)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case n := <-q.in:
			q.set(&n)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(q.ttl)
		case <-timer.C:
			q.set(nil)
		case <-q.quit:
			timer.Stop()
			return
		}
	}
}

func (q *Queue) set(n *Notification) {
	q.mu.Lock()
	q.current = n
	q.mu.Unlock()
}
