package wordml

// NewDocument returns an empty document that will be written as a minimal
// .docx from scratch. Built documents carry default styling only.
func NewDocument() *Document {
	return &Document{}
}

// AppendParagraph adds a default-styled paragraph holding text. Empty text
// produces an empty paragraph.
func (d *Document) AppendParagraph(text string) *Paragraph {
	p := &Paragraph{}
	if text != "" {
		p.children = append(p.children, &Run{dirty: true, text: text})
	}
	d.Blocks = append(d.Blocks, p)
	return p
}

// AppendTable adds a default-styled table mirroring the grid's row and column
// counts, one paragraph of text per cell.
func (d *Document) AppendTable(grid [][]string) *Table {
	cols := 0
	for _, row := range grid {
		if len(row) > cols {
			cols = len(row)
		}
	}
	t := &Table{cols: cols}
	for _, row := range grid {
		tr := &Row{}
		for _, text := range row {
			p := &Paragraph{}
			if text != "" {
				p.children = append(p.children, &Run{dirty: true, text: text})
			}
			tr.children = append(tr.children, &Cell{children: []cellChild{p}})
		}
		t.children = append(t.children, tr)
	}
	d.Blocks = append(d.Blocks, t)
	return t
}
