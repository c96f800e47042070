package arabic

import (
	"strings"

	"golang.org/x/text/unicode/bidi"
)

// Reorder resolves s from logical order into visual order using the
// Unicode Bidirectional Algorithm with a right-to-left default paragraph
// direction. Right-to-left runs are reversed (with paired brackets
// mirrored) so the result renders correctly left-to-right; embedded
// Latin and number runs keep their internal order.
func Reorder(s string) string {
	if s == "" {
		return s
	}

	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.RightToLeft)); err != nil {
		return s
	}

	ordering, err := p.Order()
	if err != nil {
		return s
	}

	// Ordering yields runs in logical order. An OCR line carries no
	// explicit directional controls, so resolved levels never exceed 2
	// and rule L2 reduces to run-order reversal: a right-to-left base
	// paragraph emits the runs last to first, a left-to-right one (line
	// starts with a strong Latin character) first to last. Right-to-left
	// runs are character-reversed either way.
	var sb strings.Builder
	sb.Grow(len(s))
	emit := func(run bidi.Run) {
		if run.Direction() == bidi.RightToLeft {
			sb.WriteString(bidi.ReverseString(run.String()))
		} else {
			sb.WriteString(run.String())
		}
	}
	if p.IsLeftToRight() {
		for i := 0; i < ordering.NumRuns(); i++ {
			emit(ordering.Run(i))
		}
	} else {
		for i := ordering.NumRuns() - 1; i >= 0; i-- {
			emit(ordering.Run(i))
		}
	}
	return sb.String()
}

// Render shapes and reorders a logical-order line for display. Lines
// without Arabic content come back unchanged: shaping is a no-op for
// non-Arabic glyphs and a left-to-right paragraph needs no reordering.
func Render(s string) string {
	if !containsArabic(s) {
		return s
	}
	return Reorder(Shape(s))
}
