package patch

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/docpatch/internal/wordml"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Correspondence is the position-based alignment between the original
// document's elements and the edited flat text's slots. It is recomputed per
// request and never persisted.
type Correspondence struct {
	// ParagraphTexts holds the edited text for the i-th slot-occupying
	// paragraph. It may be shorter than the document's paragraph count;
	// paragraphs beyond it are left unedited.
	ParagraphTexts []string

	// TableGrids holds one entry per original table, in document order. A nil
	// entry leaves that table unedited.
	TableGrids [][][]string

	// Drift records that the edited text's paragraph line count disagreed
	// with the original's. Non-fatal: the shorter sequence wins.
	Drift bool
}

// MapCorrespondence aligns edited flat text against the original document.
// Paragraph slots are consumed in order while marker lines are skipped over,
// the exact mirror of how Extract emits them. Misalignment is absorbed, not
// raised; only a malformed flat text itself is an error.
func MapCorrespondence(doc *wordml.Document, editedFlatText string, log *slog.Logger) (Correspondence, error) {
	content, err := ParseFlatText(editedFlatText)
	if err != nil {
		return Correspondence{}, fmt.Errorf("parse edited content: %w", err)
	}

	var editedTexts []string
	var editedGrids [][][]string
	for _, ln := range content.Lines {
		switch l := ln.(type) {
		case TextLine:
			editedTexts = append(editedTexts, l.Text)
		case TableLine:
			if l.Grid == nil {
				log.Warn("malformed table grid in edited content, leaving table unedited",
					"table_index", l.Index)
			}
			editedGrids = append(editedGrids, l.Grid)
		}
	}

	paragraphs, tables := 0, 0
	for _, b := range doc.Blocks {
		switch blk := b.(type) {
		case *wordml.Paragraph:
			if paragraphOccupiesSlot(blk) {
				paragraphs++
			}
		case *wordml.Table:
			tables++
		}
	}

	corr := Correspondence{TableGrids: make([][][]string, tables)}

	if len(editedTexts) != paragraphs {
		corr.Drift = true
		log.Warn("edited line count differs from original, truncating to shorter",
			"original_paragraphs", paragraphs,
			"edited_lines", len(editedTexts))
	}
	if len(editedTexts) > paragraphs {
		editedTexts = editedTexts[:paragraphs]
	}
	corr.ParagraphTexts = editedTexts

	for i, grid := range editedGrids {
		if i >= tables {
			log.Warn("table marker beyond original table count, ignoring",
				"table_index", i, "original_tables", tables)
			continue
		}
		corr.TableGrids[i] = grid
	}

	return corr, nil
}

// driftSummary counts whole lines inserted and deleted between the baseline
// flat text and the edited flat text, for alignment diagnostics.
func driftSummary(baseline, edited string) (inserted, deleted int) {
	dmp := diffmatchpatch.New()
	a, b, lineIndex := dmp.DiffLinesToChars(baseline, edited)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineIndex)
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			continue
		}
		n := strings.Count(d.Text, "\n")
		if !strings.HasSuffix(d.Text, "\n") {
			n++
		}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += n
		case diffmatchpatch.DiffDelete:
			deleted += n
		}
	}
	return inserted, deleted
}
