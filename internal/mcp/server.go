package mcp

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/hpungsan/passgen/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"password_generate": {
		def:     generateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGenerate },
	},
	"password_generate_batch": {
		def:     generateBatchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGenerateBatch },
	},
	"password_check": {
		def:     checkToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCheck },
	},
	"password_copy": {
		def:     copyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCopy },
	},
	"history_list": {
		def:     historyListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryList },
	},
	"history_clear": {
		def:     historyClearToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryClear },
	},
	"history_export": {
		def:     historyExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryExport },
	},
	"batch_export": {
		def:     batchExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBatchExport },
	},
	"branding_get": {
		def:     brandingGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBrandingGet },
	},
	"branding_set": {
		def:     brandingSetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBrandingSet },
	},
	"tips": {
		def:     tipsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTips },
	},
}

// AllToolNames returns a sorted list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with passgen tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(d *ops.Deps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"passgen",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(d)
	log := h.log()

	var disabledNames []string
	if d.Config != nil {
		disabledNames = d.Config.DisabledTools
	}
	if unknown := ValidateDisabledTools(disabledNames); len(unknown) > 0 {
		log.Warn("ignoring unknown disabled_tools entries", zap.Strings("tools", unknown))
	}

	disabled := make(map[string]bool, len(disabledNames))
	for _, name := range disabledNames {
		disabled[name] = true
	}

	registered := 0
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
		registered++
	}
	log.Debug("mcp tools registered", zap.Int("count", registered))

	return s
}

// Run starts the MCP server using stdio transport.
func Run(d *ops.Deps, version string) error {
	s := NewServer(d, version)
	return server.ServeStdio(s)
}

