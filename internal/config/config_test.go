package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.ColorEnabled() {
		t.Fatalf("expected color enabled by default")
	}
	if cfg.MaxDiagnostics != 0 {
		t.Fatalf("expected zero-value MaxDiagnostics, got %d", cfg.MaxDiagnostics)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "langc.yaml")
	content := "stdlib-preload: [print, len]\nmax-diagnostics: 20\ncolor: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.StdlibPreload) != 2 || cfg.StdlibPreload[0] != "print" {
		t.Fatalf("unexpected StdlibPreload: %v", cfg.StdlibPreload)
	}
	if cfg.MaxDiagnostics != 20 {
		t.Fatalf("expected MaxDiagnostics 20, got %d", cfg.MaxDiagnostics)
	}
	if cfg.ColorEnabled() {
		t.Fatalf("expected color disabled")
	}
}

func TestLoadMalformedYAMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "langc.yaml")
	if err := os.WriteFile(path, []byte("stdlib-preload: [unterminated"), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected a parse error")
	}
}
