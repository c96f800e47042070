package document

import (
	"fmt"
	"strings"
)

// NoTextMarker is the literal emitted for pages without recognized text.
const NoTextMarker = "[No text detected]"

// PageHeader returns the transcript header line for a page number.
func PageHeader(n int) string {
	return fmt.Sprintf("— Page %d —", n)
}

// Transcript renders the human-readable transcript: one segment per
// page, in page order, separated by a blank line. Each segment is the
// page header followed by the page's lines, or the no-text marker. The
// transcript is independent of the exported document package.
func Transcript(doc Document) string {
	segments := make([]string, 0, len(doc.Pages))

	for _, p := range doc.Pages {
		var sb strings.Builder
		sb.WriteString(PageHeader(p.Number))
		sb.WriteString("\n")
		if !p.HasText {
			sb.WriteString(NoTextMarker)
		} else {
			texts := make([]string, len(p.Lines))
			for i, l := range p.Lines {
				texts[i] = l.Text
			}
			sb.WriteString(strings.Join(texts, "\n"))
		}
		segments = append(segments, sb.String())
	}

	return strings.Join(segments, "\n\n")
}
