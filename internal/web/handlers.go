package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hpungsan/passgen/internal/errors"
	"github.com/hpungsan/passgen/internal/export"
	"github.com/hpungsan/passgen/internal/ops"
	"github.com/hpungsan/passgen/internal/password"
	"github.com/hpungsan/passgen/internal/tips"
)

// maxFormBytes caps request bodies; the largest form is a 20-password batch export.
const maxFormBytes = 64 << 10

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	deps     *ops.Deps
	renderer *Renderer
}

// page builds the shared page fields, loading branding for every render.
func (h *Handlers) page(ctx context.Context, title, nav string) PageData {
	return PageData{
		Title:    title,
		Version:  h.renderer.version,
		Nav:      nav,
		Branding: ops.GetBranding(ctx, h.deps),
	}
}

// generatorPage returns the generator page populated with config defaults.
func (h *Handlers) generatorPage(ctx context.Context) GeneratorPageData {
	cfg := h.deps.Config
	length, count := 16, 5
	if cfg != nil {
		length, count = cfg.DefaultLength, cfg.DefaultBatchCount
	}
	return GeneratorPageData{
		PageData:  h.page(ctx, "Generator", "generator"),
		Length:    length,
		Count:     count,
		Selection: password.AllClasses(),
		MinLength: password.MinLength,
		MaxLength: password.MaxLength,
		MaxCount:  password.MaxBatchCount,
		Tips:      tips.HTML(),
	}
}

// HandleIndex handles GET /: the generator page.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, "generator", h.generatorPage(r.Context()))
}

// HandleGenerate handles POST /generate: one password, recorded in history.
func (h *Handlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	data := h.generatorPage(r.Context())
	if err := h.parseGeneratorForm(w, r, &data); err != nil {
		h.generatorError(w, r, data, err)
		return
	}

	result, err := ops.Generate(r.Context(), h.deps, ops.GenerateInput{
		Length:    data.Length,
		Selection: data.Selection,
	})
	if err != nil {
		h.generatorError(w, r, data, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	data.Result = result
	data.Check = ops.Check(ops.CheckInput{Password: result.Password})
	h.renderer.renderPage(w, "generator", data)
}

// HandleBatch handles POST /batch: several passwords, not recorded.
func (h *Handlers) HandleBatch(w http.ResponseWriter, r *http.Request) {
	data := h.generatorPage(r.Context())
	if err := h.parseGeneratorForm(w, r, &data); err != nil {
		h.generatorError(w, r, data, err)
		return
	}

	result, err := ops.GenerateBatch(r.Context(), h.deps, ops.BatchInput{
		Length:    data.Length,
		Count:     data.Count,
		Selection: data.Selection,
	})
	if err != nil {
		h.generatorError(w, r, data, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	data.Batch = result
	h.renderer.renderPage(w, "generator", data)
}

// HandleBatchExport handles POST /batch/export.csv: downloads the posted batch.
func (h *Handlers) HandleBatchExport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, h.page(r.Context(), "Error", ""), errors.NewInvalidRequest("invalid form data"))
		return
	}

	text, err := export.Batch(r.PostForm["password"])
	if err != nil {
		h.renderer.renderError(w, r, h.page(r.Context(), "Error", ""), err)
		return
	}
	renderCSV(w, export.BatchFilename(time.Now()), text)
}

// HandleCheck handles POST /check: scores a typed password without storing it.
func (h *Handlers) HandleCheck(w http.ResponseWriter, r *http.Request) {
	data := h.generatorPage(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.generatorError(w, r, data, errors.NewInvalidRequest("invalid form data"))
		return
	}

	result := ops.Check(ops.CheckInput{Password: r.PostFormValue("password")})
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	data.Check = result
	h.renderer.renderPage(w, "generator", data)
}

// HandleHistory handles GET /history: the history log, newest first.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	page := h.page(r.Context(), "History", "history")

	result, err := ops.ListHistory(h.deps, ops.ListHistoryInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultHistoryLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, page, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, "history", HistoryPageData{
		PageData:   page,
		Items:      result.Items,
		Pagination: result.Pagination,
		Capacity:   result.Capacity,
	})
}

// HandleHistoryClear handles POST /history/clear: requires confirm=true.
func (h *Handlers) HandleHistoryClear(w http.ResponseWriter, r *http.Request) {
	page := h.page(r.Context(), "History", "history")
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, page, errors.NewInvalidRequest("invalid form data"))
		return
	}

	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, page, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	result, err := ops.ClearHistory(r.Context(), h.deps, ops.ClearHistoryInput{Confirm: true})
	if err != nil {
		h.renderer.renderError(w, r, page, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/history", http.StatusSeeOther)
}

// HandleHistoryExport handles GET /history/export.csv: downloads the history log.
func (h *Handlers) HandleHistoryExport(w http.ResponseWriter, r *http.Request) {
	text, err := export.History(h.deps.History.Entries())
	if err != nil {
		h.renderer.renderError(w, r, h.page(r.Context(), "History", "history"), err)
		return
	}
	renderCSV(w, export.HistoryFilename(time.Now()), text)
}

// HandleBranding handles GET /branding.
func (h *Handlers) HandleBranding(w http.ResponseWriter, r *http.Request) {
	page := h.page(r.Context(), "Branding", "branding")
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, page.Branding)
		return
	}
	h.renderer.renderPage(w, "branding", BrandingPageData{PageData: page})
}

// HandleBrandingSave handles POST /branding: save or reset.
func (h *Handlers) HandleBrandingSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, h.page(r.Context(), "Branding", "branding"), errors.NewInvalidRequest("invalid form data"))
		return
	}

	saved, err := ops.SetBranding(r.Context(), h.deps, ops.SetBrandingInput{
		CompanyName:  r.PostFormValue("company_name"),
		PrimaryColor: r.PostFormValue("primary_color"),
		Reset:        r.PostFormValue("reset") == "true",
	})
	if err != nil {
		if wantsJSON(r) {
			h.renderer.renderError(w, r, PageData{}, err)
			return
		}
		pErr := asPassgenError(err)
		h.renderer.renderPageStatus(w, pErr.Status, "branding", BrandingPageData{
			PageData: h.page(r.Context(), "Branding", "branding"),
			Error:    publicMessage(pErr),
		})
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, saved)
		return
	}

	page := h.page(r.Context(), "Branding", "branding")
	page.Branding = *saved
	h.renderer.renderPage(w, "branding", BrandingPageData{PageData: page, Saved: true})
}

// HandleTheme handles GET /theme.css: the branding colour as a CSS variable.
// Served as a stylesheet so the CSP can keep inline styles disabled.
func (h *Handlers) HandleTheme(w http.ResponseWriter, r *http.Request) {
	b := ops.GetBranding(r.Context(), h.deps)
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	fmt.Fprintf(w, ":root { --primary: %s; }\n", b.PrimaryColor)
}

// parseGeneratorForm reads length, count and the class checkboxes into data.
func (h *Handlers) parseGeneratorForm(w http.ResponseWriter, r *http.Request, data *GeneratorPageData) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return errors.NewInvalidRequest("invalid form data")
	}

	if v := strings.TrimSpace(r.PostFormValue("length")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewInvalidConfiguration("length must be an integer")
		}
		data.Length = n
	}
	if v := strings.TrimSpace(r.PostFormValue("count")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewInvalidConfiguration("count must be an integer")
		}
		data.Count = n
	}

	// Unchecked boxes are absent from the form
	data.Selection = password.Selection{
		Uppercase: formBool(r, "uppercase"),
		Lowercase: formBool(r, "lowercase"),
		Numbers:   formBool(r, "numbers"),
		Symbols:   formBool(r, "symbols"),
	}
	return nil
}

// generatorError re-renders the generator with the error inline, or JSON.
func (h *Handlers) generatorError(w http.ResponseWriter, r *http.Request, data GeneratorPageData, err error) {
	if wantsJSON(r) {
		h.renderer.renderError(w, r, data.PageData, err)
		return
	}
	pErr := asPassgenError(err)
	data.Error = publicMessage(pErr)
	h.renderer.renderPageStatus(w, pErr.Status, "generator", data)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// formBool reports whether a checkbox was submitted.
func formBool(r *http.Request, name string) bool {
	s := r.PostFormValue(name)
	return s == "on" || s == "true" || s == "1"
}
