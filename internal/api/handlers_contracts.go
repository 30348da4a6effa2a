package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docpatch/internal/patch"
	"github.com/dgallion1/docpatch/internal/wordml"
	"github.com/go-chi/chi/v5"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// handleGenerate fills the contract template with the supplied fields and
// returns where to fetch the result.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Fields) == 0 {
		jsonError(w, "fields is required", http.StatusBadRequest)
		return
	}

	path, err := s.generator.Generate(req.Fields)
	if err != nil {
		s.log.Error("contract generation failed", "error", err)
		jsonError(w, "failed to generate contract: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := filepath.Base(path)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename":     filename,
		"download_url": "/api/contracts/download/" + filename,
		"content_url":  "/api/contracts/" + filename + "/content",
	})
}

// handleGetContent returns a contract's flat editable content.
func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
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
	content := patch.Extract(doc)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename": filepath.Base(path),
		"content":  content.FlatText(),
	})
}

// handleUpdateContent applies the edited flat content back onto the pristine
// original, preserving formatting where possible. A degraded response means
// the fallback rebuild ran and original formatting was lost.
func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	path, ok := s.documentPath(w, chi.URLParam(r, "filename"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxContentBytes)
	var req struct {
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Content == nil {
		jsonError(w, "content is required", http.StatusBadRequest)
		return
	}

	result, err := s.patcher.ApplySelectiveEdits(path, *req.Content)
	if err != nil {
		if errors.Is(err, patch.ErrUnterminatedMarker) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Error("selective edit failed", "path", path, "error", err)
		jsonError(w, "failed to update document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename": filepath.Base(result.Path),
		"degraded": result.Degraded,
	})
}

// handleDownload streams a document as an attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	path, ok := s.documentPath(w, chi.URLParam(r, "filename"))
	if !ok {
		return
	}
	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeFile(w, r, path)
}

// handleTemplateInfo reports on the configured contract template.
func (s *Server) handleTemplateInfo(w http.ResponseWriter, r *http.Request) {
	info := s.generator.ValidateTemplate()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"template_info": info})
}

// handleTemplateFields lists the placeholders the template expects.
func (s *Server) handleTemplateFields(w http.ResponseWriter, r *http.Request) {
	fields, err := s.generator.ScanFields()
	if err != nil {
		s.log.Error("template scan failed", "error", err)
		jsonError(w, "failed to read template", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"fields": fields})
}

// documentPath validates a client-supplied filename and resolves it inside
// the document directory. Validation runs before any disk access.
func (s *Server) documentPath(w http.ResponseWriter, filename string) (string, bool) {
	if !validDocxFilename(filename) {
		jsonError(w, "invalid filename", http.StatusBadRequest)
		return "", false
	}
	path := filepath.Join(s.cfg.DocumentDir, filename)
	if _, err := os.Stat(path); err != nil {
		jsonError(w, "file not found", http.StatusNotFound)
		return "", false
	}
	return path, true
}

func validDocxFilename(name string) bool {
	if !strings.HasSuffix(name, ".docx") {
		return false
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return false
	}
	return true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
