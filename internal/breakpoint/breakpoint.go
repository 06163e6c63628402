// Package breakpoint classifies a viewport width into one of four layout
// size classes.
package breakpoint

import "fmt"

type Breakpoint int

const (
	Unknown Breakpoint = iota
	LargeDesktop
	Desktop
	Tablet
	Mobile
)

// All returns the four size classes from widest to narrowest.
func All() []Breakpoint {
	return []Breakpoint{LargeDesktop, Desktop, Tablet, Mobile}
}

func (b Breakpoint) String() string {
	switch b {
	case LargeDesktop:
		return "large-desktop"
	case Desktop:
		return "desktop"
	case Tablet:
		return "tablet"
	case Mobile:
		return "mobile"
	default:
		return "unknown"
	}
}

// Parse is the inverse of String for the four size classes.
func Parse(s string) (Breakpoint, error) {
	for _, b := range All() {
		if b.String() == s {
			return b, nil
		}
	}
	return Unknown, fmt.Errorf("unknown breakpoint %q", s)
}

// Thresholds are the minimum widths of each class. Anything narrower than
// Tablet is Mobile.
type Thresholds struct {
	LargeDesktop int `toml:"large_desktop"`
	Desktop      int `toml:"desktop"`
	Tablet       int `toml:"tablet"`
}

// WebThresholds match CSS pixel widths: >=1025, 769-1024, 481-768, <=480.
var WebThresholds = Thresholds{LargeDesktop: 1025, Desktop: 769, Tablet: 481}

// TerminalThresholds are terminal column widths.
var TerminalThresholds = Thresholds{LargeDesktop: 140, Desktop: 100, Tablet: 60}

// Validate checks that thresholds are positive and strictly descending.
func (t Thresholds) Validate() error {
	if t.Tablet <= 0 {
		return fmt.Errorf("breakpoints: tablet must be positive, got %d", t.Tablet)
	}
	if t.Desktop <= t.Tablet {
		return fmt.Errorf("breakpoints: desktop (%d) must be wider than tablet (%d)", t.Desktop, t.Tablet)
	}
	if t.LargeDesktop <= t.Desktop {
		return fmt.Errorf("breakpoints: large_desktop (%d) must be wider than desktop (%d)", t.LargeDesktop, t.Desktop)
	}
	return nil
}

// Classify maps width to its size class. A non-positive width means there
// is no viewport to measure; it yields Unknown and false.
func (t Thresholds) Classify(width int) (Breakpoint, bool) {
	switch {
	case width <= 0:
		return Unknown, false
	case width >= t.LargeDesktop:
		return LargeDesktop, true
	case width >= t.Desktop:
		return Desktop, true
	case width >= t.Tablet:
		return Tablet, true
	default:
		return Mobile, true
	}
}

// Watcher tracks the current class and reports only threshold crossings.
type Watcher struct {
	thresholds Thresholds
	current    Breakpoint
	onChange   func(from, to Breakpoint)
}

// NewWatcher returns a Watcher that calls onChange, if non-nil, each time
// the class changes.
func NewWatcher(t Thresholds, onChange func(from, to Breakpoint)) *Watcher {
	return &Watcher{thresholds: t, onChange: onChange}
}

// Current returns the last classification.
func (w *Watcher) Current() Breakpoint {
	return w.current
}

// Update classifies width and reports whether the class changed. Widths
// that stay within the current class are ignored.
func (w *Watcher) Update(width int) (Breakpoint, bool) {
	bp, _ := w.thresholds.Classify(width)
	if bp == w.current {
		return bp, false
	}
	from := w.current
	w.current = bp
	if w.onChange != nil {
		w.onChange(from, bp)
	}
	return bp, true
}
