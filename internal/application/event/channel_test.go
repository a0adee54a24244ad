package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannel_EmitInOrder(t *testing.T) {
	c := NewChannel[int]("test")
	var got []string

	c.Subscribe(func(v int) { got = append(got, "a") })
	c.Subscribe(func(v int) { got = append(got, "b") })
	c.Emit(1)

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, "test", c.Name())
	assert.Equal(t, 2, c.Len())
}

func TestChannel_UnsubscribeExact(t *testing.T) {
	c := NewChannel[int]("test")
	calls := map[string]int{}

	// identical closures must still be removable individually
	handler := func(name string) func(int) {
		return func(int) { calls[name]++ }
	}
	a := c.Subscribe(handler("a"))
	c.Subscribe(handler("b"))

	assert.True(t, c.Unsubscribe(a))
	assert.False(t, c.Unsubscribe(a), "second unsubscribe is a no-op")
	assert.False(t, c.Unsubscribe(Token(999)))

	c.Emit(0)
	assert.Equal(t, map[string]int{"b": 1}, calls)
}

func TestChannel_UnsubscribeSelfDuringEmit(t *testing.T) {
	c := NewChannel[int]("test")
	count := 0
	var tok Token
	tok = c.Subscribe(func(int) {
		count++
		c.Unsubscribe(tok)
	})
	other := 0
	c.Subscribe(func(int) { other++ })

	c.Emit(0)
	c.Emit(0)

	assert.Equal(t, 1, count)
	assert.Equal(t, 2, other)
	assert.Equal(t, 1, c.Len())
}

func TestChannel_UnsubscribeOtherDuringEmit(t *testing.T) {
	c := NewChannel[int]("test")
	var second Token
	secondCalls := 0

	c.Subscribe(func(int) { c.Unsubscribe(second) })
	second = c.Subscribe(func(int) { secondCalls++ })

	c.Emit(0)
	assert.Equal(t, 0, secondCalls, "removed before its turn")
}

func TestChannel_SubscribeDuringEmit(t *testing.T) {
	c := NewChannel[int]("test")
	late := 0
	added := false
	c.Subscribe(func(int) {
		if !added {
			added = true
			c.Subscribe(func(int) { late++ })
		}
	})

	c.Emit(0)
	assert.Equal(t, 0, late, "new subscribers wait for the next emit")
	c.Emit(0)
	assert.Equal(t, 1, late)
}

func TestChannel_NestedEmit(t *testing.T) {
	c := NewChannel[int]("test")
	var seen []int
	c.Subscribe(func(v int) {
		seen = append(seen, v)
		if v == 0 {
			c.Emit(1)
		}
	})

	c.Emit(0)
	assert.Equal(t, []int{0, 1}, seen)
}

func TestChannel_ClearDuringEmit(t *testing.T) {
	c := NewChannel[int]("test")
	after := 0
	c.Subscribe(func(int) { c.Clear() })
	c.Subscribe(func(int) { after++ })

	c.Emit(0)
	assert.Equal(t, 0, after)
	assert.Equal(t, 0, c.Len())
}

func TestGroup_Close(t *testing.T) {
	a := NewChannel[int]("a")
	b := NewChannel[string]("b")
	var g Group

	g.Add(Bind(a, func(int) {}))
	g.Add(Bind(b, func(string) {}))
	assert.Equal(t, 2, g.Len())

	g.Close()
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 0, b.Len())
	g.Close()
}
