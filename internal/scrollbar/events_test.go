package scrollbar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetListenAndRemove(t *testing.T) {
	var target Target
	var got []string

	removeA := target.Listen(EventScroll, func(Event) { got = append(got, "a") })
	target.Listen(EventScroll, func(Event) { got = append(got, "b") })
	target.Listen(EventResize, func(Event) { got = append(got, "resize") })

	target.Dispatch(Event{Type: EventScroll})
	assert.Equal(t, []string{"a", "b"}, got)

	removeA()
	removeA()
	got = nil
	target.Dispatch(Event{Type: EventScroll})
	assert.Equal(t, []string{"b"}, got)
	assert.Equal(t, 1, target.Listeners(EventScroll))
}

func TestTargetListenerRemovesItselfDuringDispatch(t *testing.T) {
	var target Target
	calls := 0

	var remove func()
	remove = target.Listen(EventPointerUp, func(Event) {
		calls++
		remove()
	})
	target.Listen(EventPointerUp, func(Event) { calls++ })

	target.Dispatch(Event{Type: EventPointerUp})
	target.Dispatch(Event{Type: EventPointerUp})

	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, target.Listeners(EventPointerUp))
}
