// Package patch is the formatting-preserving edit engine. It flattens a
// document into the line-oriented interchange format the editing client works
// with, aligns an edited flat text back onto the original document by
// position, and re-applies the edits mutating text content only. When the
// in-place patch cannot be applied, a destructive rebuild from the flat text
// guarantees some output.
package patch

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/docpatch/internal/wordml"
)

const (
	tableMarkerOpen  = "[TABLE_JSON]"
	tableMarkerClose = "[/TABLE_JSON]"
)

// ErrUnterminatedMarker means the edited flat text itself is malformed: a
// table marker was opened but never closed on the same line.
var ErrUnterminatedMarker = errors.New("unterminated table marker")

// Line is one slot of the flat representation: TextLine or TableLine.
type Line interface{ isLine() }

// TextLine is a paragraph's text, possibly empty.
type TextLine struct {
	Text string
}

func (TextLine) isLine() {}

// TableLine is a whole table flattened to a row-major string grid. Index is
// the table's ordinal among the document's tables, independent of paragraph
// numbering. A nil Grid means the marker's JSON payload did not parse.
type TableLine struct {
	Index int
	Grid  [][]string
}

func (TableLine) isLine() {}

// SerializedContent is the ordered flat view of a document.
type SerializedContent struct {
	Lines []Line
}

// FlatText renders the content as the newline-joined interchange text: one
// line per paragraph, one marker line per table.
func (c SerializedContent) FlatText() string {
	parts := make([]string, 0, len(c.Lines))
	for _, ln := range c.Lines {
		switch l := ln.(type) {
		case TextLine:
			parts = append(parts, l.Text)
		case TableLine:
			grid, err := json.Marshal(l.Grid)
			if err != nil {
				// A [][]string cannot fail to marshal; keep the slot regardless.
				grid = []byte("[]")
			}
			parts = append(parts, tableMarkerOpen+string(grid)+tableMarkerClose)
		}
	}
	return strings.Join(parts, "\n")
}

// ParseFlatText splits edited interchange text back into lines. Table indices
// are assigned by order of appearance. A marker whose JSON fails to parse
// yields a TableLine with a nil grid; the caller decides how to handle it. An
// unterminated marker is an error: the input itself is broken, not merely
// misaligned.
func ParseFlatText(s string) (SerializedContent, error) {
	var content SerializedContent
	tableIdx := 0
	for _, raw := range strings.Split(s, "\n") {
		if !strings.HasPrefix(raw, tableMarkerOpen) {
			content.Lines = append(content.Lines, TextLine{Text: raw})
			continue
		}
		if !strings.HasSuffix(raw, tableMarkerClose) {
			return SerializedContent{}, fmt.Errorf("%w: table %d", ErrUnterminatedMarker, tableIdx)
		}
		payload := raw[len(tableMarkerOpen) : len(raw)-len(tableMarkerClose)]
		var grid [][]string
		if err := json.Unmarshal([]byte(payload), &grid); err != nil {
			grid = nil
		}
		content.Lines = append(content.Lines, TableLine{Index: tableIdx, Grid: grid})
		tableIdx++
	}
	return content, nil
}

// paragraphOccupiesSlot reports whether a paragraph takes up a line slot in
// the flat representation. Every paragraph does, empty or not. Extraction and
// re-application must share this predicate: skipping empty paragraphs on one
// side but counting them on the other shifts every later edit onto the wrong
// paragraph.
func paragraphOccupiesSlot(p *wordml.Paragraph) bool {
	return p != nil
}

// paragraphText is the text a paragraph contributes to its line slot.
func paragraphText(p *wordml.Paragraph) string {
	return strings.TrimSpace(p.Text())
}

// isEmptyParagraph matches the extraction-side notion of emptiness.
func isEmptyParagraph(p *wordml.Paragraph) bool {
	return paragraphText(p) == ""
}
