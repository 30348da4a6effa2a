package patch

import (
	"errors"
	"testing"

	"github.com/dgallion1/docpatch/internal/wordml"
)

func TestParseFlatTextSplitsTextAndTables(t *testing.T) {
	in := "Intro\n\nContractor: X\n[TABLE_JSON][[\"H1\",\"H2\"],[\"a\",\"b\"]][/TABLE_JSON]"
	content, err := ParseFlatText(in)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(content.Lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(content.Lines))
	}

	wantTexts := []string{"Intro", "", "Contractor: X"}
	for i, w := range wantTexts {
		tl, ok := content.Lines[i].(TextLine)
		if !ok {
			t.Fatalf("line %d: expected TextLine, got %T", i, content.Lines[i])
		}
		if tl.Text != w {
			t.Errorf("line %d: expected %q, got %q", i, w, tl.Text)
		}
	}

	tbl, ok := content.Lines[3].(TableLine)
	if !ok {
		t.Fatalf("line 3: expected TableLine, got %T", content.Lines[3])
	}
	if tbl.Index != 0 {
		t.Errorf("table index: expected 0, got %d", tbl.Index)
	}
	if len(tbl.Grid) != 2 || tbl.Grid[1][1] != "b" {
		t.Errorf("unexpected grid: %v", tbl.Grid)
	}
}

func TestParseFlatTextAssignsTableIndicesInOrder(t *testing.T) {
	in := "[TABLE_JSON][[\"a\"]][/TABLE_JSON]\nmiddle\n[TABLE_JSON][[\"b\"]][/TABLE_JSON]"
	content, err := ParseFlatText(in)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	first := content.Lines[0].(TableLine)
	second := content.Lines[2].(TableLine)
	if first.Index != 0 || second.Index != 1 {
		t.Errorf("expected indices 0 and 1, got %d and %d", first.Index, second.Index)
	}
}

func TestParseFlatTextMalformedJSONYieldsNilGrid(t *testing.T) {
	content, err := ParseFlatText("[TABLE_JSON]{not json}[/TABLE_JSON]")
	if err != nil {
		t.Fatalf("malformed grid must not be a parse error, got %v", err)
	}
	tbl := content.Lines[0].(TableLine)
	if tbl.Grid != nil {
		t.Errorf("expected nil grid, got %v", tbl.Grid)
	}
}

func TestParseFlatTextUnterminatedMarkerIsError(t *testing.T) {
	_, err := ParseFlatText("Intro\n[TABLE_JSON][[\"a\"]]")
	if err == nil {
		t.Fatal("expected error for unterminated marker")
	}
	if !errors.Is(err, ErrUnterminatedMarker) {
		t.Errorf("expected ErrUnterminatedMarker, got %v", err)
	}
}

func TestFlatTextRoundTrip(t *testing.T) {
	in := "Intro\n\nContractor: X\n[TABLE_JSON][[\"H1\",\"H2\"],[\"a\",\"b\"]][/TABLE_JSON]\ntail"
	content, err := ParseFlatText(in)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := content.FlatText(); got != in {
		t.Errorf("round trip changed content:\n got: %q\nwant: %q", got, in)
	}
}

func TestEveryParagraphOccupiesASlot(t *testing.T) {
	doc := scenarioDoc(t)
	slots := 0
	for _, b := range doc.Blocks {
		if p, ok := b.(*wordml.Paragraph); ok {
			if !paragraphOccupiesSlot(p) {
				t.Errorf("paragraph %q dropped from the flat representation", p.Text())
			}
			slots++
		}
	}
	// Empty paragraphs count too; dropping them shifts later edits.
	if slots != 3 {
		t.Errorf("expected 3 paragraph slots, got %d", slots)
	}
}
