package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hpungsan/passgen/internal/clipboard"
	"github.com/hpungsan/passgen/internal/config"
	"github.com/hpungsan/passgen/internal/db"
	"github.com/hpungsan/passgen/internal/history"
	"github.com/hpungsan/passgen/internal/logger"
	"github.com/hpungsan/passgen/internal/mcp"
	"github.com/hpungsan/passgen/internal/ops"
	"github.com/hpungsan/passgen/internal/password"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"generate": true, "batch": true, "check": true,
	"history": true, "clear": true, "export": true,
	"copy": true, "branding": true, "tips": true,
	"serve": true, "help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___  ___ ____ ___ ____ ___ ___
  / _ \/ _ '(_-<(_-</ _ '/ -_) _ \
 / .__/\_,_/___/___/\_, /\__/_//_/
/_/                /___/

  Password generator and strength checker

  Usage: passgen <command> [options]
         passgen --help

  MCP server mode requires piped input.`)
}

// newDeps wires the collaborators every surface shares.
func newDeps(ctx context.Context, baseDir string, kv *db.KV, cfg *config.Config, log *zap.Logger) *ops.Deps {
	store := history.New(kv, cfg.HistoryCapacity, history.WithLogger(log))
	store.Load(ctx)

	return &ops.Deps{
		Config:     cfg,
		KV:         kv,
		History:    store,
		Generator:  password.NewGenerator(nil),
		Clipboard:  clipboard.NewSystem(),
		Log:        log,
		ExportsDir: filepath.Join(baseDir, "exports"),
	}
}

// loadConfig reads ~/.passgen/config.json and, when run inside a project,
// the nearest .passgen/config.json above the working directory.
func loadConfig(baseDir string) (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.Load(baseDir)
	}
	return config.LoadWithRepo(baseDir, cwd)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".passgen")

	cfg, err := loadConfig(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	database, err := db.Init(baseDir)
	if err != nil {
		log.Error("failed to initialize database", zap.Error(err))
		os.Exit(1)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	deps := newDeps(context.Background(), baseDir, db.NewKV(database), cfg, log)

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(deps)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'passgen --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(deps, Version); err != nil {
		log.Error("mcp server stopped", zap.Error(err))
		os.Exit(1)
	}
}
