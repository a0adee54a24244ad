// Package event provides broadcast channels with token-based subscriptions.
//
// Channels are single-threaded: Emit, Subscribe and Unsubscribe are called
// from the simulation tick. Handlers may subscribe or unsubscribe (themselves
// or others) while an Emit is in progress; a handler removed mid-emit is not
// called for the remainder of that emit, and a handler added mid-emit first
// runs on the next emit.
package event

// Token identifies one subscription
type Token uint64

type subscriber[T any] struct {
	token   Token
	fn      func(T)
	removed bool
}

// Channel is a named broadcast list
type Channel[T any] struct {
	name   string
	subs   []*subscriber[T]
	next   Token
	firing int
}

// NewChannel creates an empty channel
func NewChannel[T any](name string) *Channel[T] {
	return &Channel[T]{name: name}
}

// Name returns the channel name
func (c *Channel[T]) Name() string { return c.name }

// Subscribe registers fn and returns its token
func (c *Channel[T]) Subscribe(fn func(T)) Token {
	c.next++
	c.subs = append(c.subs, &subscriber[T]{token: c.next, fn: fn})
	return c.next
}

// Unsubscribe removes the subscription. Unknown tokens are ignored.
func (c *Channel[T]) Unsubscribe(tok Token) bool {
	for i, s := range c.subs {
		if s.token != tok || s.removed {
			continue
		}
		s.removed = true
		if c.firing == 0 {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
		}
		return true
	}
	return false
}

// Emit calls every live subscriber in subscription order
func (c *Channel[T]) Emit(v T) {
	snapshot := c.subs
	n := len(snapshot)
	c.firing++
	for i := 0; i < n; i++ {
		if s := snapshot[i]; !s.removed {
			s.fn(v)
		}
	}
	c.firing--
	if c.firing == 0 {
		c.compact()
	}
}

// Len returns the number of live subscriptions
func (c *Channel[T]) Len() int {
	n := 0
	for _, s := range c.subs {
		if !s.removed {
			n++
		}
	}
	return n
}

// Clear drops every subscription
func (c *Channel[T]) Clear() {
	for _, s := range c.subs {
		s.removed = true
	}
	if c.firing == 0 {
		c.subs = nil
	}
}

func (c *Channel[T]) compact() {
	live := c.subs[:0:0]
	for _, s := range c.subs {
		if !s.removed {
			live = append(live, s)
		}
	}
	c.subs = live
}
