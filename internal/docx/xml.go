package docx

import (
	"fmt"
	"strings"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
  <Override PartName="/word/fontTable.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.fontTable+xml"/>
  <Override PartName="/word/settings.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"/>
  <Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/fontTable" Target="fontTable.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings" Target="settings.xml"/>
</Relationships>`

const settingsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:settings xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:defaultTabStop w:val="708"/>
  <w:themeFontLang w:val="en-US" w:bidi="ar-SA"/>
</w:settings>`

// generateCoreProps writes docProps/core.xml with the document title.
func (b *Builder) generateCoreProps() string {
	created := b.now().UTC().Format("2006-01-02T15:04:05Z")
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <dc:title>%s</dc:title>
  <dc:creator>warraq</dc:creator>
  <dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>
</cp:coreProperties>`, escapeXML(b.doc.Title), created)
}

// generateStyles writes word/styles.xml. Document defaults carry the
// primary font and size so every run inherits the formatting spec even
// if a paragraph is later edited.
func (b *Builder) generateStyles() string {
	font := escapeXML(b.spec.FontFallback[0])
	sz := b.spec.FontSizePt * 2 // half-points

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:docDefaults>
    <w:rPrDefault>
      <w:rPr>
        <w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:cs="%[1]s"/>
        <w:sz w:val="%[2]d"/>
        <w:szCs w:val="%[2]d"/>
      </w:rPr>
    </w:rPrDefault>
  </w:docDefaults>
  <w:style w:type="paragraph" w:default="1" w:styleId="Normal">
    <w:name w:val="Normal"/>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading1">
    <w:name w:val="heading 1"/>
    <w:basedOn w:val="Normal"/>
    <w:pPr>
      <w:spacing w:before="240" w:after="120"/>
      <w:outlineLvl w:val="0"/>
    </w:pPr>
    <w:rPr>
      <w:b/>
      <w:bCs/>
      <w:sz w:val="32"/>
      <w:szCs w:val="32"/>
    </w:rPr>
  </w:style>
</w:styles>`, font, sz)
}

// generateFontTable writes word/fontTable.xml, declaring the full font
// fallback chain: each font names the next one as its alternate.
func (b *Builder) generateFontTable() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:fonts xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
`)
	chain := b.spec.FontFallback
	for i, name := range chain {
		sb.WriteString(`  <w:font w:name="`)
		sb.WriteString(escapeXML(name))
		sb.WriteString(`">`)
		if i+1 < len(chain) {
			sb.WriteString(`<w:altName w:val="`)
			sb.WriteString(escapeXML(chain[i+1]))
			sb.WriteString(`"/>`)
		}
		sb.WriteString("</w:font>\n")
	}
	sb.WriteString(`</w:fonts>`)
	return sb.String()
}

// generateDocument writes word/document.xml: the heading, one paragraph
// per line, and a page break after every page except the last. A page
// without text contributes no paragraphs but still counts as a page
// boundary.
func (b *Builder) generateDocument() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
`)

	b.writeHeading(&sb)

	for i, page := range b.doc.Pages {
		for _, line := range page.Lines {
			b.writeParagraph(&sb, line.Text)
		}
		if i < len(b.doc.Pages)-1 {
			sb.WriteString("    <w:p><w:r><w:br w:type=\"page\"/></w:r></w:p>\n")
		}
	}

	sb.WriteString(`    <w:sectPr>
      <w:pgSz w:w="11906" w:h="16838"/>
      <w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440"/>
      <w:bidi/>
    </w:sectPr>
  </w:body>
</w:document>`)
	return sb.String()
}

func (b *Builder) writeHeading(sb *strings.Builder) {
	sb.WriteString(`    <w:p><w:pPr><w:pStyle w:val="Heading1"/><w:bidi/><w:jc w:val="`)
	sb.WriteString(b.spec.Alignment)
	sb.WriteString(`"/></w:pPr><w:r><w:t xml:space="preserve">`)
	sb.WriteString(escapeXML(b.doc.Title))
	sb.WriteString("</w:t></w:r></w:p>\n")
}

// writeParagraph emits one RTL body paragraph with the constant spec:
// bidi direction, right alignment, 1.15 spacing (w:line is in 240ths),
// font size in half-points, and the primary font on all script slots.
func (b *Builder) writeParagraph(sb *strings.Builder, text string) {
	line := int(b.spec.LineSpacing * 240)
	sz := b.spec.FontSizePt * 2
	font := escapeXML(b.spec.FontFallback[0])

	fmt.Fprintf(sb, `    <w:p><w:pPr><w:bidi/><w:jc w:val="%s"/><w:spacing w:line="%d" w:lineRule="auto"/></w:pPr>`,
		b.spec.Alignment, line)
	fmt.Fprintf(sb, `<w:r><w:rPr><w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:cs="%[1]s"/><w:sz w:val="%[2]d"/><w:szCs w:val="%[2]d"/><w:rtl/></w:rPr>`,
		font, sz)
	fmt.Fprintf(sb, `<w:t xml:space="preserve">%s</w:t></w:r></w:p>`+"\n", escapeXML(text))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
