package internal

import (
	"math"

	"tudu/internal/scrollbar"
)

// listView is the terminal list container: a fixed-height window of
// height lines over rows*rowHeight lines of content. It is the scrollable
// element the scrollbar controller follows.
type listView struct {
	rows      int
	rowHeight int
	height    int
	scrollTop float64
	detached  bool
}

func (l *listView) contentHeight() int {
	return l.rows * l.rowHeight
}

func (l *listView) maxScroll() float64 {
	return math.Max(0, float64(l.contentHeight()-l.height))
}

func (l *listView) Geometry() (scrollbar.ScrollGeometry, bool) {
	if l.detached || l.height <= 0 {
		return scrollbar.ScrollGeometry{}, false
	}
	return scrollbar.NewScrollGeometry(l.scrollTop, float64(l.contentHeight()), float64(l.height)), true
}

func (l *listView) ScrollTo(offset float64) {
	l.scrollTop = math.Min(math.Max(0, offset), l.maxScroll())
}

func (l *listView) ScrollBy(delta float64) {
	l.ScrollTo(l.scrollTop + delta)
}

// clampScroll pulls the offset back into range after the content shrank.
func (l *listView) clampScroll() {
	l.ScrollTo(l.scrollTop)
}

// firstLine is the content line drawn at the top of the window.
func (l *listView) firstLine() int {
	return int(math.Round(l.scrollTop))
}

// rowAt maps a window-relative line to a row index, or -1.
func (l *listView) rowAt(line int) int {
	if line < 0 || line >= l.height || l.rowHeight <= 0 {
		return -1
	}
	idx := (l.firstLine() + line) / l.rowHeight
	if idx >= l.rows {
		return -1
	}
	return idx
}

// reveal scrolls the least distance that brings row idx fully into view.
// It reports whether the offset changed.
func (l *listView) reveal(idx int) bool {
	if idx < 0 || idx >= l.rows {
		return false
	}
	before := l.scrollTop
	top := float64(idx * l.rowHeight)
	bottom := top + float64(l.rowHeight)
	switch {
	case top < l.scrollTop:
		l.ScrollTo(top)
	case bottom > l.scrollTop+float64(l.height):
		l.ScrollTo(bottom - float64(l.height))
	}
	return l.scrollTop != before
}

// listTrack is the scrollbar column beside a listView; it spans the
// window's full height.
type listTrack struct {
	list *listView
}

func (t listTrack) Height() (float64, bool) {
	if t.list == nil || t.list.detached {
		return 0, false
	}
	return float64(t.list.height), true
}
