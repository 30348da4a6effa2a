package patch

import (
	"github.com/dgallion1/docpatch/internal/wordml"
)

// Extract walks the document's top-level blocks in order and produces its
// flat representation: exactly one line per paragraph (empty paragraphs
// included), one marker line per table. It never fails; malformed cell
// content degrades to an empty string.
func Extract(doc *wordml.Document) SerializedContent {
	var content SerializedContent
	tableIdx := 0
	for _, b := range doc.Blocks {
		switch blk := b.(type) {
		case *wordml.Paragraph:
			if !paragraphOccupiesSlot(blk) {
				continue
			}
			content.Lines = append(content.Lines, TextLine{Text: paragraphText(blk)})
		case *wordml.Table:
			content.Lines = append(content.Lines, TableLine{Index: tableIdx, Grid: tableGrid(blk)})
			tableIdx++
		}
	}
	return content
}

// tableGrid flattens a table to a row-major grid of trimmed cell texts. Cell
// text is the cell's first paragraph; cells with no paragraph degrade to "".
func tableGrid(t *wordml.Table) [][]string {
	rows := t.Rows()
	grid := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := row.Cells()
		texts := make([]string, 0, len(cells))
		for _, cell := range cells {
			texts = append(texts, cellText(cell))
		}
		grid = append(grid, texts)
	}
	return grid
}

func cellText(c *wordml.Cell) string {
	paras := c.Paragraphs()
	if len(paras) == 0 {
		return ""
	}
	return paragraphText(paras[0])
}
