package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/docpatch/internal/config"
	"github.com/dgallion1/docpatch/internal/contract"
	"github.com/dgallion1/docpatch/internal/patch"
	"github.com/dgallion1/docpatch/internal/wordml"
)

const testAPIKey = "test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tpl := filepath.Join(dir, "template.docx")
	tplDoc := wordml.NewDocument()
	tplDoc.AppendParagraph("Company: [COMPANY NAME]")
	if err := wordml.SaveDocument(tplDoc, tpl); err != nil {
		t.Fatalf("save template: %v", err)
	}

	doc := wordml.NewDocument()
	doc.AppendParagraph("Intro")
	doc.AppendParagraph("")
	doc.AppendParagraph("Contractor: X")
	doc.AppendTable([][]string{{"H1", "H2"}, {"a", "b"}})
	if err := wordml.SaveDocument(doc, filepath.Join(dir, "contract.docx")); err != nil {
		t.Fatalf("save contract: %v", err)
	}

	cfg := config.Config{
		Port:            "0",
		DocpatchAPIKey:  testAPIKey,
		TemplatePath:    tpl,
		DocumentDir:     dir,
		MaxContentBytes: 1 << 20,
	}
	return NewServer(
		patch.NewOrchestrator(log),
		contract.NewGenerator(cfg.TemplatePath, cfg.DocumentDir, log),
		log,
		cfg,
	)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/contracts/contract.docx/content", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/contracts/contract.docx/content", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", rec.Code)
	}
}

func TestGetContent(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/contracts/contract.docx/content", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	want := "Intro\n\nContractor: X\n[TABLE_JSON][[\"H1\",\"H2\"],[\"a\",\"b\"]][/TABLE_JSON]"
	if body["content"] != want {
		t.Errorf("content:\n got: %q\nwant: %q", body["content"], want)
	}
	if body["filename"] != "contract.docx" {
		t.Errorf("filename: expected %q, got %q", "contract.docx", body["filename"])
	}
}

func TestUpdateContentRoundTrip(t *testing.T) {
	s := newTestServer(t)
	edited := "Intro edited\n\nContractor: Y\n[TABLE_JSON][[\"H1\",\"H2\"],[\"a\",\"c\"]][/TABLE_JSON]"
	payload, _ := json.Marshal(map[string]string{"content": edited})

	rec := doRequest(t, s, http.MethodPut, "/api/contracts/contract.docx/content", string(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["degraded"] != false {
		t.Errorf("expected degraded false, got %v", body["degraded"])
	}
	outName, _ := body["filename"].(string)
	if outName != "contract_edited.docx" {
		t.Fatalf("expected contract_edited.docx, got %q", outName)
	}

	// The edited copy serves the new content.
	rec = doRequest(t, s, http.MethodGet, "/api/contracts/"+outName+"/content", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["content"]; got != edited {
		t.Errorf("edited content:\n got: %q\nwant: %q", got, edited)
	}

	// The original still serves the pristine content.
	rec = doRequest(t, s, http.MethodGet, "/api/contracts/contract.docx/content", "")
	if got := decodeBody(t, rec)["content"]; got == edited {
		t.Error("original document was modified")
	}
}

func TestUpdateContentValidation(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPut, "/api/contracts/contract.docx/content", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing content: expected 400, got %d", rec.Code)
	}

	payload, _ := json.Marshal(map[string]string{"content": "Intro\n[TABLE_JSON][[\"a\"]]"})
	rec = doRequest(t, s, http.MethodPut, "/api/contracts/contract.docx/content", string(payload))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unterminated marker: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestFilenameValidation(t *testing.T) {
	s := newTestServer(t)
	for _, name := range []string{
		"notes.txt",
		"up..dir.docx",
		"nodocx",
	} {
		rec := doRequest(t, s, http.MethodGet, "/api/contracts/"+name+"/content", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%q: expected 400, got %d", name, rec.Code)
		}
	}

	rec := doRequest(t, s, http.MethodGet, "/api/contracts/absent.docx/content", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing file: expected 404, got %d", rec.Code)
	}
}

func TestGenerateEndpoint(t *testing.T) {
	s := newTestServer(t)
	payload, _ := json.Marshal(map[string]any{
		"fields": map[string]string{"[COMPANY NAME]": "Acme Ltda"},
	})

	rec := doRequest(t, s, http.MethodPost, "/api/contracts/generate", string(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	name, _ := body["filename"].(string)
	if !strings.HasPrefix(name, "contract_") || !strings.HasSuffix(name, ".docx") {
		t.Fatalf("unexpected filename %q", name)
	}
	if body["download_url"] != "/api/contracts/download/"+name {
		t.Errorf("unexpected download_url %v", body["download_url"])
	}

	rec = doRequest(t, s, http.MethodGet, "/api/contracts/"+name+"/content", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	content, _ := decodeBody(t, rec)["content"].(string)
	if !strings.Contains(content, "Company: Acme Ltda") {
		t.Errorf("generated contract not filled: %q", content)
	}
}

func TestGenerateRequiresFields(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/api/contracts/generate", `{"fields":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestDownload(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/contracts/download/contract.docx", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != docxContentType {
		t.Errorf("content type: expected %q, got %q", docxContentType, ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "contract.docx") {
		t.Errorf("content disposition: %q", cd)
	}
}

func TestPreviewRendersHTML(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/contracts/contract.docx/preview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	html := rec.Body.String()
	if !strings.Contains(html, "Intro") || !strings.Contains(html, "Contractor: X") {
		t.Errorf("preview missing paragraph text: %q", html)
	}
	if !strings.Contains(html, "<table>") || !strings.Contains(html, "<td>a</td>") {
		t.Errorf("preview missing table markup: %q", html)
	}
}
