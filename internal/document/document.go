// Package document holds the abstract multi-page document model built
// from shaped OCR lines, and produces the plain-text transcript.
package document

import (
	"sort"
	"strings"
)

// Line is one shaped, visual-order text line.
type Line struct {
	Text       string
	Confidence float64 // carried through from recognition, in [0,1]
	OrderIndex int     // engine emission order within the page
}

// Page is one input page. Pages are created once by aggregation and not
// mutated afterwards.
type Page struct {
	Number  int // 1-based, contiguous across the document
	Lines   []Line
	HasText bool
}

// Document is the whole assembled document. It owns its pages; the
// model exists only between assembly and export.
type Document struct {
	Title  string // heading shown in the exported document
	Source string // source filename
	Pages  []Page
}

// NewPage aggregates a page's shaped lines. Blank lines are dropped,
// the rest sorted by emission order. A page with no remaining lines is
// still a valid page: it is emitted with HasText=false so document page
// numbering stays aligned with the input.
func NewPage(number int, lines []Line) Page {
	kept := make([]Line, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l.Text) == "" {
			continue
		}
		kept = append(kept, l)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].OrderIndex < kept[j].OrderIndex
	})

	return Page{
		Number:  number,
		Lines:   kept,
		HasText: len(kept) > 0,
	}
}

// New assembles the document from its pages, restoring page-number
// order regardless of the order workers finished in.
func New(source string, pages []Page) Document {
	sorted := make([]Page, len(pages))
	copy(sorted, pages)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Number < sorted[j].Number
	})

	return Document{
		Title:  "Extracted from: " + source,
		Source: source,
		Pages:  sorted,
	}
}

// Formatting is the paragraph formatting applied to every emitted
// paragraph. It is constant in this domain, not derived from input.
type Formatting struct {
	RightToLeft  bool
	Alignment    string
	LineSpacing  float64
	FontSizePt   int
	FontFallback []string // primary font first, declared fallbacks after
}

// DefaultFormatting returns the RTL paragraph spec used for all output.
func DefaultFormatting() Formatting {
	return Formatting{
		RightToLeft: true,
		Alignment:   "right",
		LineSpacing: 1.15,
		FontSizePt:  12,
		FontFallback: []string{
			"Arabic Typesetting",
			"Traditional Arabic",
			"Arial",
		},
	}
}
