package scrollbar

import (
	"io"
	"log/slog"
)

// Container is the scrollable element the thumb follows. The controller
// holds it without owning it.
type Container interface {
	// Geometry reads the current scroll state. ok is false once the
	// container is detached.
	Geometry() (g ScrollGeometry, ok bool)
	// ScrollTo sets the scroll offset.
	ScrollTo(offset float64)
}

// Track is the rail the thumb moves in.
type Track interface {
	// Height returns the track height. ok is false when the thumb element
	// is missing.
	Height() (h float64, ok bool)
}

// State is the drag state of a Controller.
type State uint8

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// DragSession is the anchor of an active drag.
type DragSession struct {
	AnchorY      float64
	AnchorOffset float64
}

// Option configures a Controller.
type Option func(*Controller)

// WithMinThumbHeight overrides DefaultMinThumbHeight.
func WithMinThumbHeight(h float64) Option {
	return func(c *Controller) {
		c.minThumb = h
	}
}

// WithDocument sets the document-level target pointer-move and pointer-up
// are read from during a drag. Without it the host must call PointerMove
// and PointerUp itself.
func WithDocument(doc *Target) Option {
	return func(c *Controller) {
		c.doc = doc
	}
}

// WithLogger sets the logger used for drag lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// Controller keeps a thumb consistent with a container and turns thumb
// drags into container scrolling.
//
// All methods must be called from the host's single event loop.
type Controller struct {
	container Container
	track     Track
	doc       *Target
	minThumb  float64
	logger    *slog.Logger

	enabled bool
	visible bool
	thumb   ThumbGeometry

	state   State
	session DragSession

	observers []func()
	dragSubs  []func()
}

// New returns an idle Controller for container and track with the
// scrollbar enabled, and computes the initial thumb geometry.
func New(container Container, track Track, opts ...Option) *Controller {
	c := &Controller{
		container: container,
		track:     track,
		minThumb:  DefaultMinThumbHeight,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.Refresh()
	return c
}

// Observe subscribes to scroll, resize and mutation signals on the
// container's target so the thumb follows content and size changes
// without an explicit Refresh from the caller.
func (c *Controller) Observe(events *Target) {
	c.observers = append(c.observers,
		events.Listen(EventScroll, func(Event) { c.Scrolled() }),
		events.Listen(EventResize, func(Event) { c.Refresh() }),
		events.Listen(EventMutation, func(Event) { c.Refresh() }),
	)
}

// Close ends any drag and removes every subscription. The controller is
// inert afterwards.
func (c *Controller) Close() {
	c.endDrag("teardown")
	for _, remove := range c.observers {
		remove()
	}
	c.observers = nil
	c.container = nil
	c.track = nil
	c.visible = false
}

// SetEnabled sets the caller's "scrollbar enabled" flag. Disabling ends a
// drag in progress.
func (c *Controller) SetEnabled(enabled bool) {
	if c.enabled == enabled {
		return
	}
	c.enabled = enabled
	if !enabled {
		c.endDrag("disabled")
	}
	c.Refresh()
}

// Refresh recomputes thumb size, position and visibility.
func (c *Controller) Refresh() {
	g, trackH, ok := c.read()
	if !ok {
		c.visible = false
		c.endDrag("detached")
		return
	}
	c.visible = c.enabled && g.Overflows()
	c.thumb = ComputeThumbGeometry(g, trackH, c.minThumb)
}

// Scrolled handles a native scroll of the container. It only moves the
// thumb.
func (c *Controller) Scrolled() {
	g, trackH, ok := c.read()
	if !ok {
		return
	}
	c.thumb = ComputeThumbGeometry(g, trackH, c.minThumb)
}

// PointerDown starts a drag at track position y. It reports whether a drag
// started, in which case the host should suppress its default handling of
// the press.
func (c *Controller) PointerDown(y float64) bool {
	if c.state == Dragging {
		return false
	}
	c.Refresh()
	if !c.visible {
		return false
	}
	g, _, ok := c.read()
	if !ok {
		return false
	}

	c.state = Dragging
	c.session = DragSession{AnchorY: y, AnchorOffset: g.Offset}
	if c.doc != nil {
		c.dragSubs = append(c.dragSubs,
			c.doc.Listen(EventPointerMove, func(ev Event) { c.PointerMove(ev.Y) }),
			c.doc.Listen(EventPointerUp, func(Event) { c.PointerUp() }),
		)
	}
	c.logger.Debug("scrollbar drag started", "y", y, "offset", g.Offset)
	return true
}

// PointerMove scrolls the container by the pointer's travel since the drag
// started, scaled from track length to scroll extent.
func (c *Controller) PointerMove(y float64) {
	if c.state != Dragging {
		return
	}
	g, trackH, ok := c.read()
	if !ok {
		c.endDrag("detached")
		return
	}

	var scrollDelta float64
	if trackH > 0 {
		scrollDelta = (y - c.session.AnchorY) / trackH * g.Extent
	}
	offset := clamp(c.session.AnchorOffset+scrollDelta, 0, g.Extent)
	c.container.ScrollTo(offset)

	g.Offset = offset
	c.thumb = ComputeThumbGeometry(g, trackH, c.minThumb)
}

// PointerUp ends the drag. It is a no-op when no drag is active.
func (c *Controller) PointerUp() {
	c.endDrag("pointer up")
}

// State returns the current drag state.
func (c *Controller) State() State {
	return c.state
}

// Session returns the active drag anchor, if any.
func (c *Controller) Session() (DragSession, bool) {
	return c.session, c.state == Dragging
}

// Thumb returns the last computed thumb geometry.
func (c *Controller) Thumb() ThumbGeometry {
	return c.thumb
}

// Visible reports whether the scrollbar is enabled and the content
// overflows.
func (c *Controller) Visible() bool {
	return c.visible
}

// HitThumb reports whether a track-relative y is over the visible thumb.
func (c *Controller) HitThumb(y float64) bool {
	return c.visible && c.thumb.Contains(y)
}

func (c *Controller) endDrag(reason string) {
	for _, remove := range c.dragSubs {
		remove()
	}
	c.dragSubs = nil
	if c.state != Dragging {
		return
	}
	c.state = Idle
	c.session = DragSession{}
	c.logger.Debug("scrollbar drag ended", "reason", reason)
}

func (c *Controller) read() (ScrollGeometry, float64, bool) {
	if c.container == nil || c.track == nil {
		return ScrollGeometry{}, 0, false
	}
	g, ok := c.container.Geometry()
	if !ok {
		return ScrollGeometry{}, 0, false
	}
	h, ok := c.track.Height()
	if !ok {
		return ScrollGeometry{}, 0, false
	}
	return g, h, true
}
