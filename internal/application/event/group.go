package event

// Bind subscribes fn to c and returns a func that removes it.
// Calling the returned func more than once is a no-op.
func Bind[T any](c *Channel[T], fn func(T)) func() {
	tok := c.Subscribe(fn)
	done := false
	return func() {
		if done {
			return
		}
		done = true
		c.Unsubscribe(tok)
	}
}

// Group tracks the subscriptions owned by one component so they can be
// released together on teardown.
type Group struct {
	cancels []func()
}

// Add records a cancel func returned by Bind
func (g *Group) Add(cancel func()) {
	g.cancels = append(g.cancels, cancel)
}

// Close releases every recorded subscription
func (g *Group) Close() {
	for i := len(g.cancels) - 1; i >= 0; i-- {
		g.cancels[i]()
	}
	g.cancels = nil
}

// Len returns the number of recorded subscriptions
func (g *Group) Len() int { return len(g.cancels) }
