// Package docx encodes the abstract document model into an Office Open
// XML word-processing package (.docx). The package is a zip of XML
// parts; every body paragraph carries the constant RTL formatting spec.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/warraq-dev/warraq/internal/document"
)

// ErrEncoding wraps any failure while serializing the package. Encoding
// failures are terminal: no partial output is ever produced.
var ErrEncoding = errors.New("document encoding failed")

// Builder creates .docx packages.
type Builder struct {
	doc  document.Document
	spec document.Formatting
	now  func() time.Time
}

// NewBuilder creates a builder for a document using the default
// formatting spec.
func NewBuilder(doc document.Document) *Builder {
	return &Builder{
		doc:  doc,
		spec: document.DefaultFormatting(),
		now:  time.Now,
	}
}

// WriteTo writes the complete package to a writer.
func (b *Builder) WriteTo(w io.Writer) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"docProps/core.xml", b.generateCoreProps()},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/settings.xml", settingsXML},
		{"word/styles.xml", b.generateStyles()},
		{"word/fontTable.xml", b.generateFontTable()},
		{"word/document.xml", b.generateDocument()},
	}

	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			zw.Close()
			return fmt.Errorf("%w: failed to create %s: %w", ErrEncoding, part.name, err)
		}
		if _, err := f.Write([]byte(part.content)); err != nil {
			zw.Close()
			return fmt.Errorf("%w: failed to write %s: %w", ErrEncoding, part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: failed to finalize package: %w", ErrEncoding, err)
	}
	return nil
}

// BuildToBuffer generates the package and returns it as a byte buffer.
func (b *Builder) BuildToBuffer() (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := b.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
