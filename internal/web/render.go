package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/passgen/internal/branding"
	"github.com/hpungsan/passgen/internal/errors"
	"github.com/hpungsan/passgen/internal/export"
	"github.com/hpungsan/passgen/internal/history"
	"github.com/hpungsan/passgen/internal/ops"
	"github.com/hpungsan/passgen/internal/password"
)

// AppName is shown when no company name is configured.
const AppName = "Password Generator"

// PageData contains common fields used across all page templates.
type PageData struct {
	Title    string
	Version  string
	Nav      string // active nav item: "generator", "history", "branding"
	Branding branding.Branding
}

// Heading returns the branded page heading.
func (p PageData) Heading() string {
	return p.Branding.Title(AppName)
}

// GeneratorPageData is the template data for the generator page.
type GeneratorPageData struct {
	PageData
	Length    int
	Count     int
	Selection password.Selection
	MinLength int
	MaxLength int
	MaxCount  int

	Result *ops.GenerateOutput
	Batch  *ops.BatchOutput
	Check  *ops.CheckOutput
	Error  string

	Tips template.HTML
}

// HistoryPageData is the template data for the history page.
type HistoryPageData struct {
	PageData
	Items      []history.Entry
	Pagination ops.Pagination
	Capacity   int
	Message    string
}

// BrandingPageData is the template data for the branding page.
type BrandingPageData struct {
	PageData
	Saved bool
	Error string
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	log       *zap.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string, log *zap.Logger) *Renderer {
	funcMap := template.FuncMap{
		"add":        func(a, b int) int { return a + b },
		"sub":        func(a, b int) int { return max(a-b, 0) },
		"formatTime": formatTime,
		"fraction":   func(r password.Result) string { return r.Fraction() },
		"tierLabel":  func(t password.Tier) string { return t.Label() },
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"generator": "generator.html",
		"history":   "history.html",
		"branding":  "branding.html",
		"error":     "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		templates: templates,
		version:   version,
		log:       log,
	}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, name string, data any) {
	r.renderPageStatus(w, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		r.log.Error("template not found", zap.String("template", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.log.Error("template execution error", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, page PageData, err error) {
	pErr := asPassgenError(err)
	if pErr.Code == errors.ErrInternal {
		r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
	}

	status := pErr.Status
	message := publicMessage(pErr)

	// JSON request
	if wantsJSON(req) {
		renderJSON(w, status, map[string]any{
			"error": map[string]any{
				"code":    string(pErr.Code),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	// Full error page
	page.Title = fmt.Sprintf("Error %d", status)
	page.Version = r.version
	r.renderPageStatus(w, status, "error", ErrorPageData{
		PageData:   page,
		StatusCode: status,
		Message:    message,
	})
}

// renderCSV sends text as an attachment download.
func renderCSV(w http.ResponseWriter, filename, text string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// wantsJSON reports whether the client asked for JSON.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// asPassgenError maps any error to a PassgenError, defaulting to INTERNAL.
func asPassgenError(err error) *errors.PassgenError {
	var pErr *errors.PassgenError
	if stderrors.As(err, &pErr) {
		return pErr
	}
	return errors.NewInternal(err)
}

// publicMessage hides internal causes from clients.
func publicMessage(pErr *errors.PassgenError) string {
	if pErr.Code == errors.ErrInternal {
		return "an internal error occurred"
	}
	return pErr.Message
}

// formatTime formats a history timestamp the same way the CSV export does.
func formatTime(t time.Time) string {
	return t.Format(export.TimestampLayout)
}
