package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	raw := `
scale: 16
tint: {r: 100, g: 110, b: 120}
model_overrides:
  grass: block/short_grass
  my_block: block/my_model
transparent_keywords: [glass]
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Scale != 16 {
		t.Fatalf("scale = %d", c.Scale)
	}
	// Unset keys keep defaults.
	if c.CanvasSize != 2000 {
		t.Fatalf("canvas_size = %d", c.CanvasSize)
	}
	if c.CacheDir != "cache" {
		t.Fatalf("cache_dir = %q", c.CacheDir)
	}
	if c.Tint != (RGB{R: 100, G: 110, B: 120}) {
		t.Fatalf("tint = %+v", c.Tint)
	}
	// Override tables merge: file entries win, built-ins survive.
	if c.ModelOverrides["grass"] != "block/short_grass" {
		t.Fatalf("grass override = %q", c.ModelOverrides["grass"])
	}
	if c.ModelOverrides["my_block"] != "block/my_model" {
		t.Fatalf("custom override = %q", c.ModelOverrides["my_block"])
	}
	if c.ModelOverrides["redstone_wire"] != "block/redstone_dust_dot" {
		t.Fatalf("built-in override lost: %v", c.ModelOverrides)
	}
	if len(c.TransparentKeywords) != 1 || c.TransparentKeywords[0] != "glass" {
		t.Fatalf("transparent_keywords = %v", c.TransparentKeywords)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if !os.IsNotExist(err) {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Scale != 32 || c.CanvasSize != 2000 {
		t.Fatalf("defaults not returned alongside error: %+v", c)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("scale: [nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
