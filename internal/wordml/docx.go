package wordml

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
)

const documentPart = "word/document.xml"

const builtContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n" +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const builtRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n" +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

// LoadDocument opens a .docx file and parses word/document.xml into the block
// model. The returned document remembers its source path so that saving can
// carry over every other archive part untouched.
func LoadDocument(path string) (*Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer zr.Close()

	var data []byte
	for _, f := range zr.File {
		if f.Name == documentPart {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", documentPart, err)
			}
			data, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", documentPart, err)
			}
			break
		}
	}
	if data == nil {
		return nil, fmt.Errorf("%s not found in archive", documentPart)
	}

	doc, err := parseDocumentXML(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", documentPart, err)
	}
	doc.sourcePath = path
	return doc, nil
}

// SaveDocument writes the document as a .docx at path. For documents loaded
// from a file, every archive part other than word/document.xml is copied from
// the source without recompression; the source file itself is never written.
func SaveDocument(doc *Document, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	zw := zip.NewWriter(out)
	if doc.sourcePath != "" {
		err = writeFromSource(zw, doc)
	} else {
		err = writeMinimal(zw, doc)
	}
	if err != nil {
		zw.Close()
		out.Close()
		os.Remove(path)
		return err
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("finalize docx: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

func writeFromSource(zw *zip.Writer, doc *Document) error {
	zr, err := zip.OpenReader(doc.sourcePath)
	if err != nil {
		return fmt.Errorf("reopen source docx: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name == documentPart {
			w, err := zw.CreateHeader(&zip.FileHeader{Name: documentPart, Method: zip.Deflate})
			if err != nil {
				return fmt.Errorf("create %s: %w", documentPart, err)
			}
			if _, err := w.Write(doc.DocumentXML()); err != nil {
				return fmt.Errorf("write %s: %w", documentPart, err)
			}
			continue
		}
		// Raw copy: compressed bytes carried over as-is.
		if err := zw.Copy(f); err != nil {
			return fmt.Errorf("copy %s: %w", f.Name, err)
		}
	}
	return nil
}

func writeMinimal(zw *zip.Writer, doc *Document) error {
	parts := []struct {
		name string
		body []byte
	}{
		{"[Content_Types].xml", []byte(builtContentTypes)},
		{"_rels/.rels", []byte(builtRels)},
		{documentPart, doc.DocumentXML()},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := w.Write(part.body); err != nil {
			return fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	return nil
}
