package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{InputDir: "/data/meshes"})

	if cfg.InputDir != "/data/meshes" {
		t.Fatalf("input dir %q", cfg.InputDir)
	}
	if cfg.OutputDir != "/data/meshes-previews" {
		t.Fatalf("output dir %q", cfg.OutputDir)
	}
	if cfg.RenderSize != 256 || cfg.Supersample != 2 {
		t.Fatalf("render defaults: size=%d ss=%d", cfg.RenderSize, cfg.Supersample)
	}
	if cfg.Workers <= 0 {
		t.Fatalf("workers %d", cfg.Workers)
	}
	if cfg.MaxInputMB != 64 {
		t.Fatalf("max input %d", cfg.MaxInputMB)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"input_dir":"/from-file","render_size":128,"workers":3}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Resolve(Flags{InputDir: "/from-flag", Size: 64})

	if cfg.InputDir != "/from-flag" {
		t.Fatalf("flag did not override: %q", cfg.InputDir)
	}
	if cfg.RenderSize != 64 {
		t.Fatalf("size %d, want 64", cfg.RenderSize)
	}
	if cfg.Workers != 3 {
		t.Fatalf("workers %d, want 3 from file", cfg.Workers)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
