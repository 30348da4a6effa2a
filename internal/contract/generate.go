// Package contract generates filled contract documents from a .docx template
// and inspects the template's placeholder fields.
package contract

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docpatch/internal/wordml"
)

// Generator fills contract templates. Placeholders are bracketed tokens like
// [COMPANY NAME] anywhere in the template's paragraphs or table cells.
type Generator struct {
	TemplatePath string
	OutputDir    string

	log *slog.Logger
}

func NewGenerator(templatePath, outputDir string, log *slog.Logger) *Generator {
	return &Generator{TemplatePath: templatePath, OutputDir: outputDir, log: log}
}

// Generate loads the template, substitutes every field, and writes the result
// under a unique name in OutputDir. Template formatting survives: where a
// placeholder sits inside a single run only that run's text changes; a
// placeholder spanning runs collapses its paragraph to the first run's
// formatting, the same trade the patch engine makes.
func (g *Generator) Generate(fields map[string]string) (string, error) {
	if len(fields) == 0 {
		return "", fmt.Errorf("no fields to fill")
	}
	var missing []string
	for ph, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, ph)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("empty values for fields: %s", strings.Join(missing, ", "))
	}

	doc, err := wordml.LoadDocument(g.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("load template: %w", err)
	}

	total := 0
	for _, b := range doc.Blocks {
		switch blk := b.(type) {
		case *wordml.Paragraph:
			total += fillParagraph(blk, fields)
		case *wordml.Table:
			for _, row := range blk.Rows() {
				for _, cell := range row.Cells() {
					for _, p := range cell.Paragraphs() {
						total += fillParagraph(p, fields)
					}
				}
			}
		}
	}

	out := filepath.Join(g.OutputDir, "contract_"+newFileID()+".docx")
	if err := wordml.SaveDocument(doc, out); err != nil {
		return "", fmt.Errorf("save contract: %w", err)
	}
	g.log.Info("contract generated", "path", out, "replacements", total)
	return out, nil
}

// fillParagraph substitutes fields in one paragraph and reports how many
// placeholder occurrences were replaced.
func fillParagraph(p *wordml.Paragraph, fields map[string]string) int {
	want, count := applyFields(p.Text(), fields)
	if count == 0 {
		return 0
	}

	// Per-run replacement first, so surrounding run styling survives when the
	// placeholder sits wholly inside one run.
	for _, r := range p.Runs() {
		if t, n := applyFields(r.Text(), fields); n > 0 {
			r.SetText(t)
		}
	}
	if p.Text() == want {
		return count
	}

	// A placeholder spans run boundaries: collapse to the first run.
	runs := p.Runs()
	if len(runs) == 0 {
		return 0
	}
	runs[0].SetText(want)
	p.RemoveRunsAfter(runs[0])
	return count
}

func applyFields(text string, fields map[string]string) (string, int) {
	count := 0
	for ph, val := range fields {
		if n := strings.Count(text, ph); n > 0 {
			text = strings.ReplaceAll(text, ph, val)
			count += n
		}
	}
	return text, count
}
