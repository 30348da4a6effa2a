package patch

import (
	"fmt"

	"github.com/dgallion1/docpatch/internal/wordml"
)

// ApplyPatch mutates the document's text content in place per the
// correspondence. Only matched runs change; every other node survives byte
// for byte. Any error aborts the whole patch: the caller discards the
// document and falls back, so a partially-edited document is never saved.
func ApplyPatch(doc *wordml.Document, corr Correspondence) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}

	paraIdx, tblIdx := 0, 0
	for _, b := range doc.Blocks {
		switch blk := b.(type) {
		case *wordml.Paragraph:
			if !paragraphOccupiesSlot(blk) {
				continue
			}
			if paraIdx < len(corr.ParagraphTexts) {
				patchParagraph(blk, corr.ParagraphTexts[paraIdx])
			}
			paraIdx++
		case *wordml.Table:
			if tblIdx < len(corr.TableGrids) && corr.TableGrids[tblIdx] != nil {
				patchTable(blk, corr.TableGrids[tblIdx])
			}
			tblIdx++
		}
	}
	return nil
}

// patchParagraph replaces the paragraph's text with edited when it differs.
// The edited value goes into the first run, which keeps its formatting; every
// later run is removed. Multi-run paragraphs collapse to a single run: text
// fidelity and first-run styling are guaranteed, inter-run style variation is
// not. Empty originals and paragraphs with no run to carry the new text are
// left alone.
func patchParagraph(p *wordml.Paragraph, edited string) {
	if isEmptyParagraph(p) || edited == paragraphText(p) {
		return
	}
	runs := p.Runs()
	if len(runs) == 0 {
		return
	}
	runs[0].SetText(edited)
	p.RemoveRunsAfter(runs[0])
}

// patchTable applies the paragraph rule to each cell's first paragraph, for
// every row/cell position present in both the original table and the edited
// grid. Rows or cells that exist on only one side are skipped; the table's
// shape never changes.
func patchTable(t *wordml.Table, grid [][]string) {
	rows := t.Rows()
	for ri, row := range rows {
		if ri >= len(grid) {
			break
		}
		cells := row.Cells()
		for ci, cell := range cells {
			if ci >= len(grid[ri]) {
				break
			}
			paras := cell.Paragraphs()
			if len(paras) == 0 {
				continue
			}
			patchParagraph(paras[0], grid[ri][ci])
		}
	}
}
