package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/hpungsan/passgen/internal/errors"
	"github.com/hpungsan/passgen/internal/ops"
	"github.com/hpungsan/passgen/internal/password"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	deps *ops.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(d *ops.Deps) *Handlers {
	return &Handlers{deps: d}
}

func (h *Handlers) log() *zap.Logger {
	if h.deps.Log == nil {
		return zap.NewNop()
	}
	return h.deps.Log
}

// Request types for each tool

// SelectionRequest carries the character-class flags. A nil flag means true.
type SelectionRequest struct {
	Uppercase *bool `json:"uppercase,omitempty"`
	Lowercase *bool `json:"lowercase,omitempty"`
	Numbers   *bool `json:"numbers,omitempty"`
	Symbols   *bool `json:"symbols,omitempty"`
}

// Selection resolves the flags against the all-classes default.
func (r SelectionRequest) Selection() password.Selection {
	return password.Selection{
		Uppercase: boolOr(r.Uppercase, true),
		Lowercase: boolOr(r.Lowercase, true),
		Numbers:   boolOr(r.Numbers, true),
		Symbols:   boolOr(r.Symbols, true),
	}
}

// GenerateRequest represents the arguments for password_generate.
type GenerateRequest struct {
	SelectionRequest
	Length int `json:"length,omitempty"`
}

// GenerateBatchRequest represents the arguments for password_generate_batch.
type GenerateBatchRequest struct {
	SelectionRequest
	Length int `json:"length,omitempty"`
	Count  int `json:"count,omitempty"`
}

// CheckRequest represents the arguments for password_check.
type CheckRequest struct {
	Password string `json:"password"`
}

// CopyRequest represents the arguments for password_copy.
type CopyRequest struct {
	Text string `json:"text"`
}

// HistoryListRequest represents the arguments for history_list.
type HistoryListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// HistoryClearRequest represents the arguments for history_clear.
type HistoryClearRequest struct {
	Confirm bool `json:"confirm"`
}

// HistoryExportRequest represents the arguments for history_export.
type HistoryExportRequest struct {
	Path string `json:"path,omitempty"`
}

// BatchExportRequest represents the arguments for batch_export.
type BatchExportRequest struct {
	Passwords []string `json:"passwords"`
	Path      string   `json:"path,omitempty"`
}

// BrandingSetRequest represents the arguments for branding_set.
type BrandingSetRequest struct {
	CompanyName  string `json:"company_name,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
	Reset        bool   `json:"reset,omitempty"`
}

// Handler implementations

// HandleGenerate handles the password_generate tool call.
func (h *Handlers) HandleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GenerateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Generate(ctx, h.deps, ops.GenerateInput{
		Length:    input.Length,
		Selection: input.Selection(),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleGenerateBatch handles the password_generate_batch tool call.
func (h *Handlers) HandleGenerateBatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GenerateBatchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.GenerateBatch(ctx, h.deps, ops.BatchInput{
		Length:    input.Length,
		Count:     input.Count,
		Selection: input.Selection(),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCheck handles the password_check tool call.
func (h *Handlers) HandleCheck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CheckRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return successResult(ops.Check(ops.CheckInput{Password: input.Password}))
}

// HandleCopy handles the password_copy tool call.
func (h *Handlers) HandleCopy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CopyRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Copy(ctx, h.deps, ops.CopyInput{Text: input.Text})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleHistoryList handles the history_list tool call.
func (h *Handlers) HandleHistoryList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListHistory(h.deps, ops.ListHistoryInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleHistoryClear handles the history_clear tool call.
func (h *Handlers) HandleHistoryClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryClearRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ClearHistory(ctx, h.deps, ops.ClearHistoryInput{Confirm: input.Confirm})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleHistoryExport handles the history_export tool call.
func (h *Handlers) HandleHistoryExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ExportHistory(ctx, h.deps, ops.ExportHistoryInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleBatchExport handles the batch_export tool call.
func (h *Handlers) HandleBatchExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BatchExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ExportBatch(ctx, h.deps, ops.ExportBatchInput{
		Passwords: input.Passwords,
		Path:      input.Path,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleBrandingGet handles the branding_get tool call.
func (h *Handlers) HandleBrandingGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.GetBranding(ctx, h.deps))
}

// HandleBrandingSet handles the branding_set tool call.
func (h *Handlers) HandleBrandingSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BrandingSetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.SetBranding(ctx, h.deps, ops.SetBrandingInput{
		CompanyName:  input.CompanyName,
		PrimaryColor: input.PrimaryColor,
		Reset:        input.Reset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleTips handles the tips tool call.
func (h *Handlers) HandleTips(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Tips())
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var pErr *errors.PassgenError
	if stderrors.As(err, &pErr) && pErr.Code != errors.ErrInternal {
		// Keep wrapper context such as "export: " in front of the message
		msg := strings.TrimSuffix(err.Error(), pErr.Error()) + pErr.Message
		errorObj := map[string]any{
			"code":    pErr.Code,
			"message": msg,
			"status":  pErr.Status,
		}
		if pErr.Details != nil {
			errorObj["details"] = pErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
