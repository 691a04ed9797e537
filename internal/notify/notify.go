// Package notify implements the process-wide transient notification channel:
// at most one visible message, last write wins, auto-expiring.
package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a message stays visible unless superseded or
// dismissed.
const DefaultTTL = 5 * time.Second

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Message is a transient user-facing notification. Seq is monotonic so that
// repeated identical text still reads as a fresh message.
type Message struct {
	Text string
	Kind Kind
	Seq  uint64
}

// Center owns the single visible message. A new message supersedes the
// current one; its pending auto-dismiss is neutralized by a generation
// compare at timer-fire time, so a stale timer never clears a newer message.
type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	current Message
	visible bool
	gen     uint64
	seq     uint64
	subs    []chan Message
}

// NewCenter creates a notification center. A non-positive ttl selects
// DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl}
}

// Publish replaces the visible message and arms its auto-dismiss timer.
func (c *Center) Publish(text string, kind Kind) Message {
	c.mu.Lock()
	c.seq++
	c.gen++
	msg := Message{Text: text, Kind: kind, Seq: c.seq}
	c.current = msg
	c.visible = true
	gen := c.gen
	subs := make([]chan Message, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	time.AfterFunc(c.ttl, func() { c.expire(gen) })

	for _, ch := range subs {
		select {
		case ch <- msg:
		default:
			// Slow subscribers drop; notifications are transient.
		}
	}
	return msg
}

// Success publishes a success message.
func (c *Center) Success(text string) Message { return c.Publish(text, KindSuccess) }

// Error publishes an error message.
func (c *Center) Error(text string) Message { return c.Publish(text, KindError) }

// Info publishes an info message.
func (c *Center) Info(text string) Message { return c.Publish(text, KindInfo) }

// Current returns the visible message, if any.
func (c *Center) Current() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.visible
}

// Dismiss clears the visible message.
func (c *Center) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.visible = false
}

// Subscribe returns a channel receiving every published message. Receivers
// that fall behind miss messages rather than blocking publishers.
func (c *Center) Subscribe() <-chan Message {
	ch := make(chan Message, 16)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()
	return ch
}

// expire clears the message only when no newer publish or dismiss happened.
func (c *Center) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.visible = false
	}
}
