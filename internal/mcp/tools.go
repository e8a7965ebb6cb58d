package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Shared property descriptions
const (
	lengthDesc = "Password length, 4-32. Defaults to the configured default_length (16)."
	pathDesc   = "Destination .csv path. Must sit directly in ~/.passgen/exports or an allowed_paths entry. Defaults to a dated file in ~/.passgen/exports."
)

// selectionOptions adds the four character-class flags to a tool.
func selectionOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithBoolean("uppercase", mcp.Description("Include A-Z (default true)")),
		mcp.WithBoolean("lowercase", mcp.Description("Include a-z (default true)")),
		mcp.WithBoolean("numbers", mcp.Description("Include 0-9 (default true)")),
		mcp.WithBoolean("symbols", mcp.Description("Include !@#$%^&*()_+-=[]{}|;:,.<>? (default true)")),
	}
}

func withSelection(opts ...mcp.ToolOption) []mcp.ToolOption {
	return append(opts, selectionOptions()...)
}

var generateToolDef = mcp.NewTool("password_generate",
	withSelection(
		mcp.WithDescription("Generate one random password, score its strength and record it in history (newest first, capped at history_capacity)."),
		mcp.WithNumber("length", mcp.Description(lengthDesc), mcp.Min(4), mcp.Max(32)),
	)...,
)

var generateBatchToolDef = mcp.NewTool("password_generate_batch",
	withSelection(
		mcp.WithDescription("Generate several independent passwords with the same settings. Batch results are not recorded in history."),
		mcp.WithNumber("length", mcp.Description(lengthDesc), mcp.Min(4), mcp.Max(32)),
		mcp.WithNumber("count", mcp.Description("Number of passwords, 1-20. Defaults to default_batch_count (5)."), mcp.Min(1), mcp.Max(20)),
	)...,
)

var checkToolDef = mcp.NewTool("password_check",
	mcp.WithDescription("Score a password's strength (0-8, weak/medium/strong) with improvement hints. The password is not stored."),
	mcp.WithString("password", mcp.Required(), mcp.Description("Password to score")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var copyToolDef = mcp.NewTool("password_copy",
	mcp.WithDescription("Copy text to the system clipboard of the machine running passgen."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Text to copy")),
)

var historyListToolDef = mcp.NewTool("history_list",
	mcp.WithDescription("List generated passwords, newest first."),
	mcp.WithNumber("limit", mcp.Description("Max entries (default 50, max 1000)")),
	mcp.WithNumber("offset", mcp.Description("Entries to skip")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var historyClearToolDef = mcp.NewTool("history_clear",
	mcp.WithDescription("Delete every history entry. Requires confirm=true."),
	mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true to clear")),
	mcp.WithDestructiveHintAnnotation(true),
)

var historyExportToolDef = mcp.NewTool("history_export",
	mcp.WithDescription("Write the history log as CSV (UTF-8 BOM, unquoted fields). Fails with EMPTY_INPUT when history is empty."),
	mcp.WithString("path", mcp.Description(pathDesc)),
)

var batchExportToolDef = mcp.NewTool("batch_export",
	mcp.WithDescription("Write a list of passwords (usually a password_generate_batch result) as CSV with strength re-scored per row."),
	mcp.WithArray("passwords", mcp.Required(), mcp.Description("Passwords in order"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithString("path", mcp.Description(pathDesc)),
)

var brandingGetToolDef = mcp.NewTool("branding_get",
	mcp.WithDescription("Get the company name and primary colour used by the web UI."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var brandingSetToolDef = mcp.NewTool("branding_set",
	mcp.WithDescription("Save the company name and primary colour (#rgb or #rrggbb), or reset both to defaults."),
	mcp.WithString("company_name", mcp.Description("Company name, up to 100 characters. Empty removes it.")),
	mcp.WithString("primary_color", mcp.Description("Hex colour, e.g. #4f46e5")),
	mcp.WithBoolean("reset", mcp.Description("Restore defaults; other fields are ignored")),
)

var tipsToolDef = mcp.NewTool("tips",
	mcp.WithDescription("Password hygiene tips."),
	mcp.WithReadOnlyHintAnnotation(true),
)
