package contract

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/fumiama/go-docx"
)

// Placeholders are bracketed tokens: [COMPANY NAME], [CNPJ], ...
var placeholderPattern = regexp.MustCompile(`\[[^\[\]]+\]`)

// TemplateInfo describes a contract template for the template info endpoint.
type TemplateInfo struct {
	Valid      bool     `json:"valid"`
	Path       string   `json:"path"`
	Paragraphs int      `json:"paragraphs_count"`
	Tables     int      `json:"tables_count"`
	Fields     []string `json:"fields_found"`
	Error      string   `json:"error,omitempty"`
}

// ScanFields returns the placeholders found in the template's paragraphs,
// sorted.
func (g *Generator) ScanFields() ([]string, error) {
	set := make(map[string]struct{})
	err := walkTemplate(g.TemplatePath, func(item any) {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			return
		}
		for _, m := range placeholderPattern.FindAllString(paragraphRunText(para), -1) {
			set[m] = struct{}{}
		}
	})
	if err != nil {
		return nil, err
	}
	fields := make([]string, 0, len(set))
	for f := range set {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields, nil
}

// ValidateTemplate reports whether the template opens, and what it contains.
// It never returns an error; problems land in the Error field.
func (g *Generator) ValidateTemplate() TemplateInfo {
	info := TemplateInfo{Path: g.TemplatePath}
	set := make(map[string]struct{})
	err := walkTemplate(g.TemplatePath, func(item any) {
		switch it := item.(type) {
		case *docx.Paragraph:
			info.Paragraphs++
			for _, m := range placeholderPattern.FindAllString(paragraphRunText(it), -1) {
				set[m] = struct{}{}
			}
		case *docx.Table:
			info.Tables++
		}
	})
	if err != nil {
		info.Error = err.Error()
		return info
	}
	for f := range set {
		info.Fields = append(info.Fields, f)
	}
	sort.Strings(info.Fields)
	info.Valid = true
	return info
}

// walkTemplate opens the template with go-docx and visits every top-level
// body item. Read-only: the patch engine's own model handles mutation.
func walkTemplate(path string, fn func(item any)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open template: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat template: %w", err)
	}
	doc, err := docx.Parse(f, st.Size())
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	for _, item := range doc.Document.Body.Items {
		fn(item)
	}
	return nil
}

func paragraphRunText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return buf.String()
}
