package patch

import (
	"fmt"

	"github.com/dgallion1/docpatch/internal/wordml"
)

// Rebuild constructs a brand-new minimal document purely from the edited flat
// text: default-styled paragraphs for text lines, default-styled tables
// mirroring each grid's shape. It trades away all original formatting, images
// and layout for the guarantee of producing some openable document. Invoked
// only when the in-place patch failed.
func Rebuild(editedFlatText string) (*wordml.Document, error) {
	content, err := ParseFlatText(editedFlatText)
	if err != nil {
		return nil, fmt.Errorf("parse edited content: %w", err)
	}

	doc := wordml.NewDocument()
	for _, ln := range content.Lines {
		switch l := ln.(type) {
		case TextLine:
			doc.AppendParagraph(l.Text)
		case TableLine:
			if l.Grid == nil {
				return nil, fmt.Errorf("table %d: malformed grid", l.Index)
			}
			doc.AppendTable(l.Grid)
		}
	}
	return doc, nil
}
