// Package export offers the two output modes over the assembled
// document model: the word-processor package and the plain transcript.
// Both are pure functions of the model; neither performs recognition.
package export

import (
	"path/filepath"
	"strings"

	"github.com/warraq-dev/warraq/internal/document"
	"github.com/warraq-dev/warraq/internal/docx"
)

const (
	// DocumentPrefix is prepended to the source stem for the package name.
	DocumentPrefix = "arabic_ocr_"
	// DocumentExt is the package file extension.
	DocumentExt = ".docx"
	// TranscriptSuffix is appended to the source stem for the transcript name.
	TranscriptSuffix = "_transcript.txt"
)

// Stem returns the source filename without directory or extension.
func Stem(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DocumentName derives the output package name from the source filename.
func DocumentName(source string) string {
	return DocumentPrefix + Stem(source) + DocumentExt
}

// TranscriptName derives the transcript file name from the source filename.
func TranscriptName(source string) string {
	return Stem(source) + TranscriptSuffix
}

// Document encodes the document model into a .docx byte package.
func Document(doc document.Document) ([]byte, error) {
	buf, err := docx.NewBuilder(doc).BuildToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Transcript renders the UTF-8 transcript bytes.
func Transcript(doc document.Document) []byte {
	return []byte(document.Transcript(doc))
}
