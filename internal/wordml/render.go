package wordml

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const (
	builtDocPrefix = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n" +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	builtDocSuffix = `</w:body></w:document>`
)

// DocumentXML renders the complete word/document.xml. Blocks that were never
// mutated come out byte-identical to the source.
func (d *Document) DocumentXML() []byte {
	var buf bytes.Buffer
	if d.prefix != nil {
		buf.Write(d.prefix)
	} else {
		buf.WriteString(builtDocPrefix)
	}
	for _, b := range d.Blocks {
		switch blk := b.(type) {
		case *Raw:
			buf.Write(blk.xml)
		case *Paragraph:
			renderParagraph(&buf, blk)
		case *Table:
			renderTable(&buf, blk)
		}
	}
	if d.prefix != nil {
		buf.Write(d.suffix)
	} else {
		buf.WriteString(builtDocSuffix)
	}
	return buf.Bytes()
}

func renderParagraph(buf *bytes.Buffer, p *Paragraph) {
	if p.start == nil {
		buf.WriteString("<w:p>")
	} else {
		buf.Write(p.start)
	}
	for _, ch := range p.children {
		switch c := ch.(type) {
		case *Raw:
			buf.Write(c.xml)
		case *Run:
			renderRun(buf, c)
		}
	}
	if p.start == nil {
		buf.WriteString("</w:p>")
	} else {
		buf.Write(p.end)
	}
}

func renderRun(buf *bytes.Buffer, r *Run) {
	if !r.dirty {
		if r.start == nil {
			return
		}
		buf.Write(r.start)
		for _, ch := range r.children {
			switch c := ch.(type) {
			case *Raw:
				buf.Write(c.xml)
			case *textNode:
				buf.Write(c.raw)
			}
		}
		buf.Write(r.end)
		return
	}

	// Replacement text: keep the original tag and properties, emit a single
	// text span in place of the original content.
	switch {
	case r.start == nil:
		buf.WriteString("<w:r>")
	case bytes.HasSuffix(r.start, []byte("/>")):
		// Self-closing run being given content: reopen the tag.
		buf.Write(r.start[:len(r.start)-2])
		buf.WriteByte('>')
	default:
		buf.Write(r.start)
	}
	buf.Write(r.props)
	buf.WriteString(`<w:t xml:space="preserve">`)
	xml.EscapeText(buf, []byte(r.text))
	buf.WriteString(`</w:t>`)
	if len(r.end) > 0 {
		buf.Write(r.end)
	} else {
		buf.WriteString("</w:r>")
	}
}

func renderTable(buf *bytes.Buffer, t *Table) {
	if t.start == nil {
		buf.WriteString("<w:tbl>")
		buf.WriteString(`<w:tblPr><w:tblW w:w="0" w:type="auto"/><w:tblBorders>` +
			`<w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`<w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`<w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`<w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`</w:tblBorders></w:tblPr>`)
		buf.WriteString("<w:tblGrid>")
		for i := 0; i < t.cols; i++ {
			fmt.Fprintf(buf, `<w:gridCol w:w="%d"/>`, 2400)
		}
		buf.WriteString("</w:tblGrid>")
	} else {
		buf.Write(t.start)
	}
	for _, ch := range t.children {
		switch c := ch.(type) {
		case *Raw:
			buf.Write(c.xml)
		case *Row:
			renderRow(buf, c)
		}
	}
	if t.start == nil {
		buf.WriteString("</w:tbl>")
	} else {
		buf.Write(t.end)
	}
}

func renderRow(buf *bytes.Buffer, r *Row) {
	if r.start == nil {
		buf.WriteString("<w:tr>")
	} else {
		buf.Write(r.start)
	}
	for _, ch := range r.children {
		switch c := ch.(type) {
		case *Raw:
			buf.Write(c.xml)
		case *Cell:
			renderCell(buf, c)
		}
	}
	if r.start == nil {
		buf.WriteString("</w:tr>")
	} else {
		buf.Write(r.end)
	}
}

func renderCell(buf *bytes.Buffer, c *Cell) {
	if c.start == nil {
		buf.WriteString(`<w:tc><w:tcPr><w:tcW w:w="0" w:type="auto"/></w:tcPr>`)
	} else {
		buf.Write(c.start)
	}
	for _, ch := range c.children {
		switch n := ch.(type) {
		case *Raw:
			buf.Write(n.xml)
		case *Paragraph:
			renderParagraph(buf, n)
		}
	}
	if c.start == nil {
		buf.WriteString("</w:tc>")
	} else {
		buf.Write(c.end)
	}
}
