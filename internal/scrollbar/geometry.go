// Package scrollbar drives a synthetic vertical scrollbar thumb for a
// scrollable container: thumb sizing and placement, and a pointer-drag
// state machine that moves the container's scroll offset.
//
// Lengths are unit-agnostic. The terminal UI measures in lines, the web
// layout in CSS pixels.
package scrollbar

// DefaultMinThumbHeight is the smallest thumb, in pixels, that stays a usable touch target.
const DefaultMinThumbHeight = 20

// ScrollGeometry is a live read of a container's vertical scroll state.
type ScrollGeometry struct {
	Offset  float64 // scrollTop, in [0, Extent]
	Extent  float64 // scrollHeight - clientHeight, never negative
	Visible float64 // clientHeight
}

// NewScrollGeometry builds a ScrollGeometry from raw element metrics,
// clamping the offset into range.
func NewScrollGeometry(scrollTop, scrollHeight, clientHeight float64) ScrollGeometry {
	extent := scrollHeight - clientHeight
	if extent < 0 {
		extent = 0
	}
	if clientHeight < 0 {
		clientHeight = 0
	}
	return ScrollGeometry{
		Offset:  clamp(scrollTop, 0, extent),
		Extent:  extent,
		Visible: clientHeight,
	}
}

// Content returns the total scrollable height.
func (g ScrollGeometry) Content() float64 {
	return g.Extent + g.Visible
}

// Overflows reports whether the content is taller than the viewport.
func (g ScrollGeometry) Overflows() bool {
	return g.Extent > 0
}

// ThumbGeometry is where the thumb sits on its track.
type ThumbGeometry struct {
	Height      float64
	TrackExtent float64 // track height - thumb height: the thumb's travel
	Position    float64 // translateY, in [0, TrackExtent]
}

// ComputeThumbGeometry sizes and places the thumb for the given scroll state
// and track height.
func ComputeThumbGeometry(g ScrollGeometry, trackHeight, minThumb float64) ThumbGeometry {
	if trackHeight < 0 {
		trackHeight = 0
	}

	var height float64
	if !g.Overflows() {
		height = trackHeight
	} else {
		height = g.Visible / g.Content() * g.Visible
		if height < minThumb {
			height = minThumb
		}
	}

	trackExtent := trackHeight - height
	if trackExtent < 0 {
		trackExtent = 0
	}

	var pos float64
	if g.Extent > 0 {
		pos = clamp(g.Offset/g.Extent*trackExtent, 0, trackExtent)
	}

	return ThumbGeometry{
		Height:      height,
		TrackExtent: trackExtent,
		Position:    pos,
	}
}

// Contains reports whether a track-relative y falls on the thumb.
func (t ThumbGeometry) Contains(y float64) bool {
	return y >= t.Position && y < t.Position+t.Height
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
