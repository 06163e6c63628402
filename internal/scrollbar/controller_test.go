package scrollbar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeList struct {
	scrollTop    float64
	scrollHeight float64
	clientHeight float64
	detached     bool
}

func (l *fakeList) Geometry() (ScrollGeometry, bool) {
	if l.detached {
		return ScrollGeometry{}, false
	}
	return NewScrollGeometry(l.scrollTop, l.scrollHeight, l.clientHeight), true
}

func (l *fakeList) ScrollTo(offset float64) {
	l.scrollTop = offset
}

type fakeTrack struct {
	height  float64
	missing bool
}

func (t *fakeTrack) Height() (float64, bool) {
	return t.height, !t.missing
}

func newFixture(opts ...Option) (*fakeList, *fakeTrack, *Target, *Controller) {
	list := &fakeList{scrollHeight: 1000, clientHeight: 400}
	track := &fakeTrack{height: 400}
	doc := &Target{}
	c := New(list, track, append([]Option{WithDocument(doc)}, opts...)...)
	return list, track, doc, c
}

func TestDragScenario(t *testing.T) {
	list, _, doc, c := newFixture()

	require.True(t, c.Visible())
	require.True(t, c.PointerDown(50))
	assert.Equal(t, Dragging, c.State())

	doc.Dispatch(Event{Type: EventPointerMove, Y: 100})
	assert.InDelta(t, 75, list.scrollTop, 0.5)

	doc.Dispatch(Event{Type: EventPointerUp})
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 0, doc.Listeners(EventPointerMove))
	assert.Equal(t, 0, doc.Listeners(EventPointerUp))
}

func TestThumbFollowsNativeScroll(t *testing.T) {
	list, _, _, c := newFixture()
	events := &Target{}
	c.Observe(events)

	// 40% visible: thumb is 160 on a 400 track, leaving 240 of travel.
	require.InDelta(t, 160, c.Thumb().Height, 1e-9)

	list.scrollTop = 150
	events.Dispatch(Event{Type: EventScroll})

	assert.InDelta(t, 60, c.Thumb().Position, 1e-9)
	assert.Equal(t, Idle, c.State())
}

func TestThumbResizesOnMutation(t *testing.T) {
	list, _, _, c := newFixture()
	events := &Target{}
	c.Observe(events)

	list.scrollHeight = 2000
	events.Dispatch(Event{Type: EventMutation})

	assert.InDelta(t, 80, c.Thumb().Height, 1e-9)
}

func TestPointerUpIsIdempotent(t *testing.T) {
	list, _, doc, c := newFixture()
	require.True(t, c.PointerDown(10))
	doc.Dispatch(Event{Type: EventPointerMove, Y: 30})

	c.PointerUp()
	once := *list
	stateOnce := c.State()

	c.PointerUp()
	assert.Equal(t, once, *list)
	assert.Equal(t, stateOnce, c.State())
	assert.Equal(t, Idle, c.State())
}

func TestDragRoundTrip(t *testing.T) {
	for _, d := range []float64{1, 17.5, 40, 120} {
		list, _, doc, c := newFixture()
		list.scrollTop = 200
		c.Refresh()

		require.True(t, c.PointerDown(100))
		doc.Dispatch(Event{Type: EventPointerMove, Y: 100 + d})
		doc.Dispatch(Event{Type: EventPointerMove, Y: 100})
		doc.Dispatch(Event{Type: EventPointerUp})

		assert.InDelta(t, 200, list.scrollTop, 1e-9, "d=%v", d)
	}
}

func TestDragClampsToExtent(t *testing.T) {
	list, _, doc, c := newFixture()

	require.True(t, c.PointerDown(200))
	doc.Dispatch(Event{Type: EventPointerMove, Y: 5000})
	assert.Equal(t, 600.0, list.scrollTop)
	assert.Equal(t, c.Thumb().TrackExtent, c.Thumb().Position)

	doc.Dispatch(Event{Type: EventPointerMove, Y: -5000})
	assert.Equal(t, 0.0, list.scrollTop)
	assert.Equal(t, 0.0, c.Thumb().Position)
}

func TestPointerDownIgnoredWhenNotVisible(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeList, *fakeTrack, *Controller)
	}{
		{
			name:  "content fits",
			setup: func(l *fakeList, _ *fakeTrack, _ *Controller) { l.scrollHeight = 400 },
		},
		{
			name:  "disabled",
			setup: func(_ *fakeList, _ *fakeTrack, c *Controller) { c.SetEnabled(false) },
		},
		{
			name:  "detached container",
			setup: func(l *fakeList, _ *fakeTrack, _ *Controller) { l.detached = true },
		},
		{
			name:  "missing thumb",
			setup: func(_ *fakeList, tr *fakeTrack, _ *Controller) { tr.missing = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, track, doc, c := newFixture()
			tt.setup(list, track, c)

			assert.False(t, c.PointerDown(10))
			assert.Equal(t, Idle, c.State())
			assert.Equal(t, 0, doc.Listeners(EventPointerMove))
			assert.False(t, c.Visible())
		})
	}
}

func TestNoOverflowBoundary(t *testing.T) {
	list, _, _, c := newFixture()
	list.scrollHeight = list.clientHeight
	c.Refresh()

	assert.False(t, c.Visible())
	assert.Equal(t, 400.0, c.Thumb().Height)
	assert.Equal(t, 0.0, c.Thumb().Position)
}

func TestShrinkingContentHidesScrollbar(t *testing.T) {
	list, _, _, c := newFixture()
	events := &Target{}
	c.Observe(events)
	require.True(t, c.Visible())

	list.clientHeight = 1200
	events.Dispatch(Event{Type: EventResize})
	assert.False(t, c.Visible())

	// Still attached: growing content brings it back.
	list.scrollHeight = 3000
	events.Dispatch(Event{Type: EventMutation})
	assert.True(t, c.Visible())
}

func TestDetachDuringDragEndsSession(t *testing.T) {
	list, _, doc, c := newFixture()
	require.True(t, c.PointerDown(50))

	list.detached = true
	doc.Dispatch(Event{Type: EventPointerMove, Y: 80})

	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 0, doc.Listeners(EventPointerMove))
	assert.Equal(t, 0.0, list.scrollTop)
}

func TestDisableDuringDragEndsSession(t *testing.T) {
	_, _, doc, c := newFixture()
	require.True(t, c.PointerDown(50))

	c.SetEnabled(false)

	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 0, doc.Listeners(EventPointerUp))
}

func TestCloseRemovesSubscriptions(t *testing.T) {
	list, _, doc, c := newFixture()
	events := &Target{}
	c.Observe(events)
	require.True(t, c.PointerDown(50))

	c.Close()

	assert.Equal(t, Idle, c.State())
	for _, typ := range []EventType{EventScroll, EventResize, EventMutation} {
		assert.Equal(t, 0, events.Listeners(typ), typ.String())
	}
	assert.Equal(t, 0, doc.Listeners(EventPointerMove))

	// Inert after teardown.
	events.Dispatch(Event{Type: EventScroll})
	assert.False(t, c.PointerDown(50))
	assert.Equal(t, 0.0, list.scrollTop)
}

func TestSecondPointerDownWhileDragging(t *testing.T) {
	_, _, doc, c := newFixture()
	require.True(t, c.PointerDown(50))
	assert.False(t, c.PointerDown(90))

	s, ok := c.Session()
	require.True(t, ok)
	assert.Equal(t, 50.0, s.AnchorY)
	assert.Equal(t, 1, doc.Listeners(EventPointerMove))
}

func TestMoveWithoutSessionIsIgnored(t *testing.T) {
	list, _, _, c := newFixture()
	c.PointerMove(300)
	assert.Equal(t, 0.0, list.scrollTop)
}

func TestMinThumbHeightOption(t *testing.T) {
	list := &fakeList{scrollHeight: 100, clientHeight: 10}
	c := New(list, &fakeTrack{height: 10}, WithMinThumbHeight(1))

	assert.Equal(t, 1.0, c.Thumb().Height)
	assert.Equal(t, 9.0, c.Thumb().TrackExtent)
}

func TestHitThumb(t *testing.T) {
	list, _, _, c := newFixture()
	list.scrollTop = 600
	c.Refresh()

	assert.True(t, c.HitThumb(300))
	assert.False(t, c.HitThumb(100))

	c.SetEnabled(false)
	assert.False(t, c.HitThumb(300))
}
