package ops

import (
	"go.uber.org/zap"

	"github.com/hpungsan/passgen/internal/branding"
	"github.com/hpungsan/passgen/internal/clipboard"
	"github.com/hpungsan/passgen/internal/config"
	"github.com/hpungsan/passgen/internal/history"
	"github.com/hpungsan/passgen/internal/password"
)

// Pagination limits
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 1000
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Deps holds the collaborators shared by every operation. Surfaces build one
// at startup and pass it to each call.
type Deps struct {
	Config    *config.Config
	KV        branding.KV
	History   *history.Store
	Generator *password.Generator
	Clipboard clipboard.Writer
	Log       *zap.Logger

	// ExportsDir is the default destination for CSV files.
	ExportsDir string
}

func (d *Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

func (d *Deps) cfg() *config.Config {
	if d.Config == nil {
		return config.DefaultConfig()
	}
	return d.Config
}
