package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := DefaultConfig()
	if cfg.DefaultLength != want.DefaultLength {
		t.Errorf("DefaultLength = %d, want %d", cfg.DefaultLength, want.DefaultLength)
	}
	if cfg.HistoryCapacity != 50 {
		t.Errorf("HistoryCapacity = %d, want 50", cfg.HistoryCapacity)
	}
	if cfg.DefaultBatchCount != 5 {
		t.Errorf("DefaultBatchCount = %d, want 5", cfg.DefaultBatchCount)
	}
	if cfg.WebBind != "127.0.0.1" {
		t.Errorf("WebBind = %q, want 127.0.0.1", cfg.WebBind)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"default_length": 24, "history_capacity": 10}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultLength != 24 {
		t.Errorf("DefaultLength = %d, want 24", cfg.DefaultLength)
	}
	if cfg.HistoryCapacity != 10 {
		t.Errorf("HistoryCapacity = %d, want 10", cfg.HistoryCapacity)
	}
	// Unset fields keep defaults
	if cfg.DefaultBatchCount != 5 {
		t.Errorf("DefaultBatchCount = %d, want 5", cfg.DefaultBatchCount)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{not json}`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_RejectsOutOfRangeLength(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"default_length": 64}`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected validation error for default_length=64")
	}
}

func TestLoad_RejectsOutOfRangeBatchCount(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"default_batch_count": 21}`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected validation error for default_batch_count=21")
	}
}

func TestLoad_RejectsUnknownLogLevel(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"log_level": "verbose"}`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected validation error for log_level=verbose")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"default_length": 24}`)

	t.Setenv(EnvDefaultLength, "20")
	t.Setenv(EnvHistoryCapacity, "5")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultLength != 20 {
		t.Errorf("DefaultLength = %d, want 20 (env wins over file)", cfg.DefaultLength)
	}
	if cfg.HistoryCapacity != 5 {
		t.Errorf("HistoryCapacity = %d, want 5", cfg.HistoryCapacity)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_EnvNotInteger(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(EnvWebPort, "eighty")

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error for non-integer %s", EnvWebPort)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("PASSGEN_BATCH_COUNT=12\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	// Register for cleanup; godotenv does not override variables already set,
	// so start from an empty value that t.Setenv restores afterwards.
	t.Setenv(EnvBatchCount, "")
	os.Unsetenv(EnvBatchCount)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultBatchCount != 12 {
		t.Errorf("DefaultBatchCount = %d, want 12 (from .env)", cfg.DefaultBatchCount)
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"disabled_tools": ["history_clear", " history_clear ", "password_copy"]}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools = %v, want 2 deduplicated entries", cfg.DisabledTools)
	}
}

func TestMerge_OverlayWins(t *testing.T) {
	base := &Config{DefaultLength: 16, HistoryCapacity: 50, AllowedPaths: []string{"/a"}}
	overlay := &Config{DefaultLength: 12, AllowedPaths: []string{"/b", "/a"}, AllowUnsafePaths: true}

	got := Merge(base, overlay)

	if got.DefaultLength != 12 {
		t.Errorf("DefaultLength = %d, want 12", got.DefaultLength)
	}
	if got.HistoryCapacity != 50 {
		t.Errorf("HistoryCapacity = %d, want 50", got.HistoryCapacity)
	}
	if !got.AllowUnsafePaths {
		t.Error("AllowUnsafePaths = false, want true")
	}
	if len(got.AllowedPaths) != 2 || got.AllowedPaths[0] != "/a" || got.AllowedPaths[1] != "/b" {
		t.Errorf("AllowedPaths = %v, want [/a /b]", got.AllowedPaths)
	}
}

func TestMerge_EmptySlicesStayNil(t *testing.T) {
	got := Merge(&Config{}, &Config{})
	if got.DisabledTools != nil {
		t.Errorf("DisabledTools = %v, want nil", got.DisabledTools)
	}
}

func TestLoadWithRepo_RepoOverridesGlobal(t *testing.T) {
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `{"default_length": 20, "disabled_tools": ["history_clear"]}`)

	repoRoot := t.TempDir()
	writeConfig(t, filepath.Join(repoRoot, ".passgen"), `{"default_length": 12, "disabled_tools": ["password_copy"]}`)

	nested := filepath.Join(repoRoot, "a", "b")
	if err := os.MkdirAll(nested, 0700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	cfg, err := LoadWithRepo(globalDir, nested)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.DefaultLength != 12 {
		t.Errorf("DefaultLength = %d, want 12 (repo wins)", cfg.DefaultLength)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools = %v, want merged pair", cfg.DisabledTools)
	}
}
