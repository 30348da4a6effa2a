package patch

import (
	"archive/zip"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/docpatch/internal/wordml"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scenarioDocPath writes the standard test document to disk: three paragraphs
// (the middle one empty) followed by a 2x2 table.
func scenarioDocPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contract.docx")
	doc := wordml.NewDocument()
	doc.AppendParagraph("Intro")
	doc.AppendParagraph("")
	doc.AppendParagraph("Contractor: X")
	doc.AppendTable([][]string{{"H1", "H2"}, {"a", "b"}})
	if err := wordml.SaveDocument(doc, path); err != nil {
		t.Fatalf("save scenario doc: %v", err)
	}
	return path
}

func scenarioDoc(t *testing.T) *wordml.Document {
	t.Helper()
	doc, err := wordml.LoadDocument(scenarioDocPath(t))
	if err != nil {
		t.Fatalf("load scenario doc: %v", err)
	}
	return doc
}

const (
	testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`
	testRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`
)

// loadFromXML wraps a handcrafted word/document.xml in a minimal archive and
// loads it, so the resulting document is backed by original bytes.
func loadFromXML(t *testing.T, documentXML string) *wordml.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	zw := zip.NewWriter(f)
	for _, part := range []struct{ name, body string }{
		{"[Content_Types].xml", testContentTypes},
		{"_rels/.rels", testRels},
		{"word/document.xml", documentXML},
	} {
		w, err := zw.Create(part.name)
		if err != nil {
			t.Fatalf("create part %s: %v", part.name, err)
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			t.Fatalf("write part %s: %v", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close fixture zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}

	doc, err := wordml.LoadDocument(path)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return doc
}
