package wordml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// parseDocumentXML builds the block model over the raw bytes of
// word/document.xml. Every byte of the input ends up owned by exactly one node
// (or the prefix/suffix), so re-rendering an untouched document reproduces the
// input exactly.
func parseDocumentXML(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	// Everything up to the end of the <w:body> start tag is opaque prefix.
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("no body element")
		}
		if err != nil {
			return nil, fmt.Errorf("scan for body: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "body" {
			break
		}
	}

	doc := &Document{prefix: data[:dec.InputOffset()]}
	cursor := dec.InputOffset()
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("body content: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if off > cursor {
				doc.Blocks = append(doc.Blocks, &Raw{xml: data[cursor:off]})
			}
			switch t.Name.Local {
			case "p":
				p, err := parseParagraph(dec, data, off)
				if err != nil {
					return nil, err
				}
				doc.Blocks = append(doc.Blocks, p)
			case "tbl":
				tb, err := parseTable(dec, data, off)
				if err != nil {
					return nil, err
				}
				doc.Blocks = append(doc.Blocks, tb)
			default:
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				doc.Blocks = append(doc.Blocks, &Raw{xml: raw})
			}
			cursor = dec.InputOffset()
		case xml.EndElement:
			// </w:body>: the rest of the file is opaque suffix.
			if off > cursor {
				doc.Blocks = append(doc.Blocks, &Raw{xml: data[cursor:off]})
			}
			doc.suffix = data[off:]
			return doc, nil
		}
	}
}

// skipRaw consumes the element whose start tag was just read and returns its
// complete original bytes.
func skipRaw(dec *xml.Decoder, data []byte, start int64) ([]byte, error) {
	if err := dec.Skip(); err != nil {
		return nil, fmt.Errorf("skip element: %w", err)
	}
	return data[start:dec.InputOffset()], nil
}

func parseParagraph(dec *xml.Decoder, data []byte, start int64) (*Paragraph, error) {
	p := &Paragraph{start: data[start:dec.InputOffset()]}
	cursor := dec.InputOffset()
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("paragraph content: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if off > cursor {
				p.children = append(p.children, &Raw{xml: data[cursor:off]})
			}
			if t.Name.Local == "r" {
				r, err := parseRun(dec, data, off)
				if err != nil {
					return nil, err
				}
				p.children = append(p.children, r)
			} else {
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				p.children = append(p.children, &Raw{xml: raw})
			}
			cursor = dec.InputOffset()
		case xml.EndElement:
			if off > cursor {
				p.children = append(p.children, &Raw{xml: data[cursor:off]})
			}
			p.end = data[off:dec.InputOffset()]
			return p, nil
		}
	}
}

func parseRun(dec *xml.Decoder, data []byte, start int64) (*Run, error) {
	r := &Run{start: data[start:dec.InputOffset()]}
	cursor := dec.InputOffset()
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("run content: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if off > cursor {
				r.children = append(r.children, &Raw{xml: data[cursor:off]})
			}
			switch t.Name.Local {
			case "t":
				tn, err := parseText(dec, data, off)
				if err != nil {
					return nil, err
				}
				r.children = append(r.children, tn)
			case "rPr":
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				r.props = raw
				r.children = append(r.children, &Raw{xml: raw})
			default:
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				r.children = append(r.children, &Raw{xml: raw})
			}
			cursor = dec.InputOffset()
		case xml.EndElement:
			if off > cursor {
				r.children = append(r.children, &Raw{xml: data[cursor:off]})
			}
			r.end = data[off:dec.InputOffset()]
			return r, nil
		}
	}
}

func parseText(dec *xml.Decoder, data []byte, start int64) (*textNode, error) {
	var sb strings.Builder
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("text content: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			if depth == 0 {
				sb.Write(t)
			}
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return &textNode{raw: data[start:dec.InputOffset()], text: sb.String()}, nil
			}
			depth--
		}
	}
}

func parseTable(dec *xml.Decoder, data []byte, start int64) (*Table, error) {
	tbl := &Table{start: data[start:dec.InputOffset()]}
	cursor := dec.InputOffset()
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("table content: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if off > cursor {
				tbl.children = append(tbl.children, &Raw{xml: data[cursor:off]})
			}
			if t.Name.Local == "tr" {
				row, err := parseRow(dec, data, off)
				if err != nil {
					return nil, err
				}
				tbl.children = append(tbl.children, row)
			} else {
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				tbl.children = append(tbl.children, &Raw{xml: raw})
			}
			cursor = dec.InputOffset()
		case xml.EndElement:
			if off > cursor {
				tbl.children = append(tbl.children, &Raw{xml: data[cursor:off]})
			}
			tbl.end = data[off:dec.InputOffset()]
			return tbl, nil
		}
	}
}

func parseRow(dec *xml.Decoder, data []byte, start int64) (*Row, error) {
	row := &Row{start: data[start:dec.InputOffset()]}
	cursor := dec.InputOffset()
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("row content: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if off > cursor {
				row.children = append(row.children, &Raw{xml: data[cursor:off]})
			}
			if t.Name.Local == "tc" {
				cell, err := parseCell(dec, data, off)
				if err != nil {
					return nil, err
				}
				row.children = append(row.children, cell)
			} else {
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				row.children = append(row.children, &Raw{xml: raw})
			}
			cursor = dec.InputOffset()
		case xml.EndElement:
			if off > cursor {
				row.children = append(row.children, &Raw{xml: data[cursor:off]})
			}
			row.end = data[off:dec.InputOffset()]
			return row, nil
		}
	}
}

func parseCell(dec *xml.Decoder, data []byte, start int64) (*Cell, error) {
	cell := &Cell{start: data[start:dec.InputOffset()]}
	cursor := dec.InputOffset()
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("cell content: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if off > cursor {
				cell.children = append(cell.children, &Raw{xml: data[cursor:off]})
			}
			if t.Name.Local == "p" {
				p, err := parseParagraph(dec, data, off)
				if err != nil {
					return nil, err
				}
				cell.children = append(cell.children, p)
			} else {
				// tcPr, nested tables and anything else stay opaque.
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				cell.children = append(cell.children, &Raw{xml: raw})
			}
			cursor = dec.InputOffset()
		case xml.EndElement:
			if off > cursor {
				cell.children = append(cell.children, &Raw{xml: data[cursor:off]})
			}
			cell.end = data[off:dec.InputOffset()]
			return cell, nil
		}
	}
}
