// Package wordml is the document collaborator: it loads a .docx into an
// ordered block model, lets callers read and replace text content, and writes
// the result back. Everything the caller does not touch is carried as the raw
// bytes of the original word/document.xml and re-emitted verbatim, so
// formatting, images, bookmarks and section properties survive a round trip
// untouched.
package wordml

import "strings"

// Document is an ordered sequence of top-level blocks plus the opaque head and
// tail of the underlying document.xml needed to write it back.
type Document struct {
	sourcePath string
	prefix     []byte // through the end of the <w:body> start tag
	suffix     []byte // from the </w:body> end tag onward
	Blocks     []Block
}

// SourcePath returns the file the document was loaded from, or "" for
// documents built from scratch.
func (d *Document) SourcePath() string { return d.sourcePath }

// Block is a top-level document element: *Paragraph, *Table, or *Raw.
type Block interface{ isBlock() }

// Raw is a span of document XML the engine never interprets or mutates:
// section properties, standalone bookmarks, inter-element whitespace. It is
// written back byte for byte.
type Raw struct{ xml []byte }

func (*Raw) isBlock()   {}
func (*Raw) parChild()  {}
func (*Raw) runChild()  {}
func (*Raw) tblChild()  {}
func (*Raw) rowChild()  {}
func (*Raw) cellChild() {}

// Child unions for each container element. Unrecognized children are *Raw.
type (
	parChild  interface{ parChild() }
	runChild  interface{ runChild() }
	tblChild  interface{ tblChild() }
	rowChild  interface{ rowChild() }
	cellChild interface{ cellChild() }
)

// Paragraph is an ordered sequence of runs plus opaque siblings (pPr,
// hyperlinks, bookmarks).
type Paragraph struct {
	start, end []byte // original start/end tags; nil start means built from scratch
	children   []parChild
}

func (*Paragraph) isBlock()   {}
func (*Paragraph) cellChild() {}

// Runs returns the paragraph's direct runs in document order.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, ch := range p.children {
		if r, ok := ch.(*Run); ok {
			runs = append(runs, r)
		}
	}
	return runs
}

// Text returns the concatenated text of all runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, ch := range p.children {
		if r, ok := ch.(*Run); ok {
			sb.WriteString(r.Text())
		}
	}
	return sb.String()
}

// RemoveRunsAfter drops every run that follows keep. Non-run children
// (bookmark markers, properties) stay in place.
func (p *Paragraph) RemoveRunsAfter(keep *Run) {
	seen := false
	out := p.children[:0]
	for _, ch := range p.children {
		if r, ok := ch.(*Run); ok {
			if r == keep {
				seen = true
			} else if seen {
				continue
			}
		}
		out = append(out, ch)
	}
	p.children = out
}

// Run is a contiguous text span with one formatting definition. Replacing its
// text keeps the original tag and properties; everything else in the run is
// dropped on re-render.
type Run struct {
	start, end []byte
	props      []byte // raw <w:rPr>, nil if absent
	children   []runChild
	dirty      bool
	text       string
}

func (*Run) parChild() {}

// Text returns the run's text content.
func (r *Run) Text() string {
	if r.dirty {
		return r.text
	}
	var sb strings.Builder
	for _, ch := range r.children {
		if t, ok := ch.(*textNode); ok {
			sb.WriteString(t.text)
		}
	}
	return sb.String()
}

// SetText replaces the run's content with a single text span, keeping the
// run's formatting properties.
func (r *Run) SetText(s string) {
	r.dirty = true
	r.text = s
}

// textNode is a <w:t> element: decoded text plus the original bytes.
type textNode struct {
	raw  []byte
	text string
}

func (*textNode) runChild() {}

// Table is an ordered sequence of rows plus opaque properties.
type Table struct {
	start, end []byte
	children   []tblChild
	cols       int // built tables only: grid column count
}

func (*Table) isBlock() {}

// Rows returns the table's rows in document order.
func (t *Table) Rows() []*Row {
	var rows []*Row
	for _, ch := range t.children {
		if r, ok := ch.(*Row); ok {
			rows = append(rows, r)
		}
	}
	return rows
}

// Row is an ordered sequence of cells.
type Row struct {
	start, end []byte
	children   []rowChild
}

func (*Row) tblChild() {}

// Cells returns the row's cells in document order.
func (r *Row) Cells() []*Cell {
	var cells []*Cell
	for _, ch := range r.children {
		if c, ok := ch.(*Cell); ok {
			cells = append(cells, c)
		}
	}
	return cells
}

// Cell is an ordered sequence of paragraphs. Nested tables stay opaque.
type Cell struct {
	start, end []byte
	children   []cellChild
}

func (*Cell) rowChild() {}

// Paragraphs returns the cell's direct paragraphs in document order.
func (c *Cell) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, ch := range c.children {
		if p, ok := ch.(*Paragraph); ok {
			paras = append(paras, p)
		}
	}
	return paras
}
