package diag

import (
	"cmp"
	"slices"

	"sigtype/internal/source"
)

// Bag collects the diagnostics of one input, up to a limit. Not safe for
// concurrent use; the driver gives every file its own bag.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

// NewBag returns a bag holding at most max diagnostics (100 when max <= 0).
func NewBag(max int) *Bag {
	if max <= 0 {
		max = 100
	}
	return &Bag{items: make([]Diagnostic, 0, min(max, 16)), max: max}
}

// Add сохраняет d, если лимит не исчерпан; иначе считает её отброшенной.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int { return b.max }

func (b *Bag) Len() int { return len(b.items) }

// Dropped returns how many diagnostics Add rejected because of the limit.
func (b *Bag) Dropped() int { return b.dropped }

// Items returns the stored slice itself; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) HasErrors() bool { return b.has(SevError) }

func (b *Bag) HasWarnings() bool { return b.has(SevWarning) }

func (b *Bag) has(min Severity) bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= min })
}

// Filter keeps diagnostics with severity >= min.
func (b *Bag) Filter(min Severity) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return d.Severity < min })
}

// Sort orders by position, then by severity (errors first), then by code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup drops repeated diagnostics with the same code and primary span,
// keeping the first.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span source.Span
	}
	seen := make(map[key]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := key{d.Code, d.Primary}
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}
