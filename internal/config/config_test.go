package config

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/reactivity/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Devtools.Addr != DefaultAddr {
		t.Errorf("Devtools.Addr = %q, want %q", cfg.Devtools.Addr, DefaultAddr)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v, want info/text", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if !stderrors.Is(err, errors.New("E100")) {
		t.Errorf("expected E100 for missing config, got %v", err)
	}

	configYAML := `log:
  level: DEBUG
  format: json
devtools:
  addr: 0.0.0.0:9000
metrics:
  enabled: false
snapshot:
  bucket: graphs
  region: eu-west-1
  prefix: prod/
`
	if err := os.WriteFile(filepath.Join(tmpDir, "reactivity.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.Log.SlogLevel())
	}
	if cfg.Devtools.Addr != "0.0.0.0:9000" {
		t.Errorf("Devtools.Addr = %q", cfg.Devtools.Addr)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be false")
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want default", cfg.Metrics.Namespace)
	}
	if cfg.Snapshot.Bucket != "graphs" || cfg.Snapshot.Region != "eu-west-1" {
		t.Errorf("Snapshot = %+v", cfg.Snapshot)
	}
	if cfg.Path() != filepath.Join(tmpDir, "reactivity.yaml") {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "reactivity.json")
	if err := os.WriteFile(path, []byte(`{"tracing":{"enabled":true,"tracerName":"svc"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.TracerName != "svc" {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
		code   string
		detail string
	}{
		{"bad yaml", "log: [", "yaml", "E101", ""},
		{"bad json", "{", "json", "E101", ""},
		{"bad level", "log:\n  level: loud\n", "yaml", "E102", "Log.Level failed oneof"},
		{"bad format", `{"log":{"format":"xml"}}`, "json", "E102", "Log.Format"},
		{"bad addr", "devtools:\n  addr: nowhere\n", "yaml", "E102", "Devtools.Addr failed hostname_port"},
		{"bucket without region", "snapshot:\n  bucket: b\n", "yaml", "E102", "Snapshot.Region failed required_with"},
		{"bad endpoint", "snapshot:\n  endpoint: not a url\n", "yaml", "E102", "Snapshot.Endpoint"},
		{"bad namespace", "metrics:\n  namespace: a-b\n", "yaml", "E102", "Metrics.Namespace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			var coded *errors.Error
			if !errors.As(err, &coded) {
				t.Fatalf("expected coded error, got %v", err)
			}
			if coded.Code != tt.code {
				t.Errorf("Code = %s, want %s", coded.Code, tt.code)
			}
			if tt.detail != "" && !strings.Contains(coded.Detail, tt.detail) {
				t.Errorf("Detail = %q, want it to contain %q", coded.Detail, tt.detail)
			}
		})
	}
}

func TestLoadFileLocatesParseErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
		line int
	}{
		{"yaml", "reactivity.yaml", "log:\n  level: info\nmetrics:\n  enabled: maybe\n", 4},
		{"json", "reactivity.json", "{\n  \"metrics\": {\"enabled\": \"yes\"}\n}\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := LoadFile(path)
			var coded *errors.Error
			if !errors.As(err, &coded) || coded.Code != "E101" {
				t.Fatalf("expected E101, got %v", err)
			}
			if coded.Location == nil || coded.Location.File != path || coded.Location.Line != tt.line {
				t.Fatalf("Location = %+v, want %s line %d", coded.Location, path, tt.line)
			}
			if len(coded.Context) == 0 {
				t.Error("expected context lines from the file")
			}
			prefix := fmt.Sprintf("%s:%d", path, tt.line)
			if got := coded.FormatCompact(); !strings.HasPrefix(got, prefix) {
				t.Errorf("FormatCompact() = %q, want prefix %q", got, prefix)
			}
		})
	}
}

func TestOffsetPosition(t *testing.T) {
	data := []byte("ab\ncd\n")
	tests := []struct {
		offset    int64
		line, col int
	}{
		{0, 1, 1},
		{2, 1, 2},
		{4, 2, 1},
		{100, 3, 1},
	}
	for _, tt := range tests {
		line, col := offsetPosition(data, tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("offsetPosition(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.col)
		}
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"out.yaml", "out.json"} {
		t.Run(name, func(t *testing.T) {
			cfg := New()
			cfg.Snapshot.Dir = "snaps"
			path := filepath.Join(tmpDir, name)
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo error: %v", err)
			}
			if cfg.Path() != path {
				t.Errorf("Path() = %q, want %q", cfg.Path(), path)
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile error: %v", err)
			}
			if loaded.Snapshot.Dir != "snaps" {
				t.Errorf("Snapshot.Dir = %q, want snaps", loaded.Snapshot.Dir)
			}
		})
	}
}

func TestFind(t *testing.T) {
	tmpDir := t.TempDir()
	if _, ok := Find(tmpDir); ok {
		t.Error("expected no config in empty dir")
	}

	for _, name := range []string{"reactivity.json", "reactivity.yml"} {
		os.WriteFile(filepath.Join(tmpDir, name), []byte("{}"), 0644)
	}
	path, ok := Find(tmpDir)
	if !ok || filepath.Base(path) != "reactivity.yml" {
		t.Errorf("Find() = %q, %v; want reactivity.yml first", path, ok)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for level, want := range tests {
		if got := (LogConfig{Level: level}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", level, got, want)
		}
	}
}
