package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "small.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
debug_ast = "json"
max_call_depth = 200

[log]
level = "debug"
file = "logs/small.log"

[journal]
driver = "sqlite3"
dsn = "runs.db"
`)

	config, err := LoadConfigFile(path, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.DebugAST != "json" || config.MaxCallDepth != 200 {
		t.Errorf("unexpected evaluator settings %+v", config)
	}
	if config.Log.Level != "debug" || config.Log.File != "logs/small.log" {
		t.Errorf("unexpected log settings %+v", config.Log)
	}
	if config.Journal.Driver != "sqlite3" || config.Journal.DSN != "runs.db" {
		t.Errorf("unexpected journal settings %+v", config.Journal)
	}
}

func TestLoadConfigFileDefaults(t *testing.T) {
	config, err := LoadConfigFile(writeConfig(t, "[log]\nlevel = \"warn\"\n"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.MaxCallDepth != DefaultMaxCallDepth || config.DebugAST != "" {
		t.Errorf("defaults were not kept: %+v", config)
	}

	missing := filepath.Join(t.TempDir(), "absent.toml")
	config, err = LoadConfigFile(missing, true)
	if err != nil {
		t.Fatalf("an optional missing file should not fail: %v", err)
	}
	if config.MaxCallDepth != DefaultMaxCallDepth || config.Log.Level != "none" {
		t.Errorf("unexpected defaults %+v", config)
	}

	if _, err := LoadConfigFile(missing, false); err == nil {
		t.Errorf("a required missing file should fail")
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	tests := []struct {
		content string
		message string
	}{
		{`max_depth = 3`, "unknown config key 'max_depth'"},
		{`debug_ast = "xml"`, "invalid debug_ast 'xml'"},
		{`max_call_depth = "deep"`, "failed to load config"},
	}

	for _, tt := range tests {
		_, err := LoadConfigFile(writeConfig(t, tt.content), false)
		if err == nil || !strings.Contains(err.Error(), tt.message) {
			t.Errorf("%q: expected error containing %q, got %v", tt.content, tt.message, err)
		}
	}
}

func TestGetLineAndColumn(t *testing.T) {
	src := "ab\ncdé\nf"
	tests := []struct {
		pos  int
		line int
		col  int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{5, 2, 3},
		{8, 3, 1},
	}

	for _, tt := range tests {
		line, col := GetLineAndColumn(src, tt.pos)
		if line != tt.line || col != tt.col {
			t.Errorf("pos %d: expected %d:%d, got %d:%d", tt.pos, tt.line, tt.col, line, col)
		}
	}
}
