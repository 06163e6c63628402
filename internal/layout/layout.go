// Package layout holds the per-breakpoint list density policy.
package layout

import (
	"fmt"

	"tudu/internal/breakpoint"
)

// Policy is how many rows the list shows, how tall each is, and whether the
// custom scrollbar is offered.
type Policy struct {
	VisibleRows int  `toml:"visible_rows" json:"visibleRows"`
	RowHeight   int  `toml:"row_height" json:"rowHeight"`
	Scrollbar   bool `toml:"scrollbar" json:"scrollbar"`
}

// ContainerHeight is the fixed height of the list viewport.
func (p Policy) ContainerHeight() int {
	return p.VisibleRows * p.RowHeight
}

// ContentHeight is the height of n rows.
func (p Policy) ContentHeight(n int) int {
	return n * p.RowHeight
}

// ScrollbarVisible reports whether the custom scrollbar shows for n items.
func (p Policy) ScrollbarVisible(n int) bool {
	return p.Scrollbar && p.ContentHeight(n) > p.ContainerHeight()
}

func (p Policy) Validate() error {
	if p.VisibleRows <= 0 {
		return fmt.Errorf("visible_rows must be positive, got %d", p.VisibleRows)
	}
	if p.RowHeight <= 0 {
		return fmt.Errorf("row_height must be positive, got %d", p.RowHeight)
	}
	return nil
}

// Table maps each breakpoint to its policy.
type Table map[breakpoint.Breakpoint]Policy

// WebTable is measured in CSS pixels.
var WebTable = Table{
	breakpoint.LargeDesktop: {VisibleRows: 4, RowHeight: 88, Scrollbar: true},
	breakpoint.Desktop:      {VisibleRows: 4, RowHeight: 88, Scrollbar: true},
	breakpoint.Tablet:       {VisibleRows: 6, RowHeight: 72, Scrollbar: true},
	breakpoint.Mobile:       {VisibleRows: 6, RowHeight: 55, Scrollbar: false},
}

// TerminalTable is measured in terminal lines.
var TerminalTable = Table{
	breakpoint.LargeDesktop: {VisibleRows: 8, RowHeight: 3, Scrollbar: true},
	breakpoint.Desktop:      {VisibleRows: 6, RowHeight: 3, Scrollbar: true},
	breakpoint.Tablet:       {VisibleRows: 8, RowHeight: 2, Scrollbar: true},
	breakpoint.Mobile:       {VisibleRows: 10, RowHeight: 1, Scrollbar: false},
}

// For returns the policy for bp. Unknown, or a class missing from the
// table, falls back to Desktop.
func (t Table) For(bp breakpoint.Breakpoint) Policy {
	if p, ok := t[bp]; ok {
		return p
	}
	return t[breakpoint.Desktop]
}

// Clone returns a copy of t that can be modified independently.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Validate checks every policy in the table.
func (t Table) Validate() error {
	for _, bp := range breakpoint.All() {
		p, ok := t[bp]
		if !ok {
			return fmt.Errorf("layout.%s: missing", bp)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("layout.%s: %w", bp, err)
		}
	}
	return nil
}
