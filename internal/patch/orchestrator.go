package patch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docpatch/internal/wordml"
)

// Result is the outcome of applying selective edits. Degraded means the
// output came from the fallback rebuild and lost the original's formatting;
// callers must surface that to the user as a formatting-loss warning.
type Result struct {
	Path     string `json:"path"`
	Degraded bool   `json:"degraded"`
}

// Orchestrator coordinates extraction, correspondence mapping, the in-place
// patch and the fallback rebuild. It holds no per-document state: every call
// loads a fresh copy from disk.
type Orchestrator struct {
	log *slog.Logger

	// patchFn is ApplyPatch in production; tests swap it to force the
	// fallback path.
	patchFn func(*wordml.Document, Correspondence) error
}

func NewOrchestrator(log *slog.Logger) *Orchestrator {
	return &Orchestrator{log: log, patchFn: ApplyPatch}
}

// ApplySelectiveEdits loads the pristine original at originalPath, aligns the
// edited flat text against it, and saves an edited copy under the derived
// output path. Loading from the original every time, never from a prior
// edited output, prevents cumulative drift across repeated edits.
//
// On a patch failure the whole mutation is discarded and the document is
// rebuilt from the flat text alone, exactly once; only a failure of that
// rebuild surfaces as an error.
func (o *Orchestrator) ApplySelectiveEdits(originalPath, editedFlatText string) (Result, error) {
	doc, err := wordml.LoadDocument(originalPath)
	if err != nil {
		return Result{}, fmt.Errorf("load document: %w", err)
	}

	// Baseline is re-derived per request; no cached server-side state is
	// trusted. It also feeds the drift diagnostics below.
	baseline := Extract(doc)

	corr, err := MapCorrespondence(doc, editedFlatText, o.log)
	if err != nil {
		return Result{}, fmt.Errorf("map edited content: %w", err)
	}
	if corr.Drift {
		inserted, deleted := driftSummary(baseline.FlatText(), editedFlatText)
		o.log.Warn("alignment drift between original and edited content",
			"path", originalPath,
			"lines_inserted", inserted,
			"lines_deleted", deleted)
	}

	outPath := DerivedPath(originalPath)

	if err := o.patchFn(doc, corr); err != nil {
		o.log.Error("format-preserving patch failed, rebuilding from edited content",
			"path", originalPath, "error", err)
		rebuilt, rerr := Rebuild(editedFlatText)
		if rerr != nil {
			return Result{}, fmt.Errorf("fallback rebuild: %w", rerr)
		}
		if serr := wordml.SaveDocument(rebuilt, outPath); serr != nil {
			return Result{}, fmt.Errorf("save rebuilt document: %w", serr)
		}
		return Result{Path: outPath, Degraded: true}, nil
	}

	if err := wordml.SaveDocument(doc, outPath); err != nil {
		return Result{}, fmt.Errorf("save patched document: %w", err)
	}
	return Result{Path: outPath}, nil
}

// DerivedPath is the deterministic output path for an edited copy of the
// original: the original name with an "_edited" suffix, same directory. The
// original file itself is never overwritten.
func DerivedPath(originalPath string) string {
	ext := filepath.Ext(originalPath)
	return strings.TrimSuffix(originalPath, ext) + "_edited" + ext
}
