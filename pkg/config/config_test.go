package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoadMissingConfig(t *testing.T) {
	_, err := Load(t.TempDir())
	if !os.IsNotExist(err) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "enabled: true\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Enabled {
		t.Error("enabled should be true")
	}
	if cfg.SourceDir != "prompts" || cfg.FragmentDir != "fragments" {
		t.Errorf("unexpected source defaults: %+v", cfg)
	}
	if cfg.OutputDir != filepath.Join(".cursor", "rules") || cfg.Extension != ".mdc" {
		t.Errorf("unexpected output defaults: %+v", cfg)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("workers = %d, want NumCPU", cfg.Workers)
	}
}

func TestLoadExplicitValues(t *testing.T) {
	dir := t.TempDir()
	content := `enabled: true
source_dir: defs
fragment_dir: shared
output_dir: rules
extension: md
workers: 3
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SourceDir != "defs" || cfg.FragmentDir != "shared" || cfg.OutputDir != "rules" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Extension != ".md" {
		t.Errorf("extension = %q, want dot-prefixed .md", cfg.Extension)
	}
	if cfg.Workers != 3 {
		t.Errorf("workers = %d, want 3", cfg.Workers)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("enabled: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected parse error")
	}
}
