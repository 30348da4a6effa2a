package api

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/dgallion1/docpatch/internal/patch"
	"github.com/dgallion1/docpatch/internal/wordml"
	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// handlePreview renders a read-only HTML view of a contract's flat content:
// paragraphs as-is, table grids as GFM tables.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	path, ok := s.documentPath(w, chi.URLParam(r, "filename"))
	if !ok {
		return
	}

	doc, err := wordml.LoadDocument(path)
	if err != nil {
		s.log.Error("failed to load document", "path", path, "error", err)
		jsonError(w, "failed to read document", http.StatusInternalServerError)
		return
	}

	md := contentMarkdown(patch.Extract(doc))
	var buf bytes.Buffer
	if err := goldmark.New(goldmark.WithExtensions(extension.GFM)).Convert([]byte(md), &buf); err != nil {
		s.log.Error("preview render failed", "path", path, "error", err)
		jsonError(w, "failed to render preview", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// contentMarkdown turns flat content into Markdown: one paragraph per text
// line, one pipe table per grid.
func contentMarkdown(content patch.SerializedContent) string {
	var sb strings.Builder
	for _, ln := range content.Lines {
		switch l := ln.(type) {
		case patch.TextLine:
			sb.WriteString(l.Text)
			sb.WriteString("\n\n")
		case patch.TableLine:
			sb.WriteString(gridMarkdown(l.Grid))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func gridMarkdown(grid [][]string) string {
	if len(grid) == 0 {
		return ""
	}
	var sb strings.Builder
	for ri, row := range grid {
		sb.WriteString("|")
		for _, cell := range row {
			sb.WriteString(" ")
			sb.WriteString(strings.ReplaceAll(cell, "|", `\|`))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
		if ri == 0 {
			sb.WriteString("|")
			for range row {
				sb.WriteString(" --- |")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
