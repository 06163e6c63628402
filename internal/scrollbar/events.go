package scrollbar

// EventType names a signal a host delivers to a Target.
type EventType uint8

const (
	EventScroll      EventType = iota // container scroll offset changed
	EventResize                       // container size changed
	EventMutation                     // container content changed
	EventPointerMove                  // pointer moved anywhere in the document
	EventPointerUp                    // pointer released anywhere in the document
)

func (t EventType) String() string {
	switch t {
	case EventScroll:
		return "scroll"
	case EventResize:
		return "resize"
	case EventMutation:
		return "mutation"
	case EventPointerMove:
		return "pointermove"
	case EventPointerUp:
		return "pointerup"
	default:
		return "unknown"
	}
}

// Event is a single notification. Y is set for pointer events.
type Event struct {
	Type EventType
	Y    float64
}

// Listener handles an Event.
type Listener func(Event)

// Target is a synchronous event target. The host owns it and calls Dispatch
// from its event loop; listeners run inline, in subscription order.
//
// A Target is not safe for concurrent use.
type Target struct {
	next      int
	listeners map[EventType][]subscription
}

type subscription struct {
	id int
	fn Listener
}

// Listen registers fn for events of type t and returns a function that
// removes it. Calling the returned function more than once is harmless.
func (t *Target) Listen(typ EventType, fn Listener) (remove func()) {
	if t.listeners == nil {
		t.listeners = make(map[EventType][]subscription)
	}
	t.next++
	id := t.next
	t.listeners[typ] = append(t.listeners[typ], subscription{id: id, fn: fn})

	return func() {
		subs := t.listeners[typ]
		for i, s := range subs {
			if s.id == id {
				t.listeners[typ] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers ev to the listeners registered when it was called.
// Listeners may add or remove subscriptions while it runs.
func (t *Target) Dispatch(ev Event) {
	subs := t.listeners[ev.Type]
	if len(subs) == 0 {
		return
	}
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	for _, s := range snapshot {
		s.fn(ev)
	}
}

// Listeners returns the number of live subscriptions for typ.
func (t *Target) Listeners(typ EventType) int {
	return len(t.listeners[typ])
}
