// Package config loads renderer settings from YAML, with defaults that match
// the pinned asset pack.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sensen02/litematicRender/internal/assets"
	"github.com/sensen02/litematicRender/internal/model"
	"github.com/sensen02/litematicRender/internal/render"
)

type Config struct {
	// Scale is the pixel height of one block edge.
	Scale int `yaml:"scale"`
	// CanvasSize is the square working canvas edge in pixels.
	CanvasSize int `yaml:"canvas_size"`

	AssetsBaseURL string `yaml:"assets_base_url"`
	CacheDir      string `yaml:"cache_dir"`

	// Tint multiplies tinted faces (biome-color stand-in).
	Tint RGB `yaml:"tint"`

	// ModelOverrides extends/replaces the built-in block-to-model table.
	ModelOverrides map[string]string `yaml:"model_overrides"`
	// TransparentKeywords replaces the transparency classification when set.
	TransparentKeywords []string `yaml:"transparent_keywords"`
}

type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

func Defaults() Config {
	return Config{
		Scale:          32,
		CanvasSize:     2000,
		AssetsBaseURL:  assets.DefaultBaseURL,
		CacheDir:       "cache",
		Tint:           RGB{R: render.DefaultTint.R, G: render.DefaultTint.G, B: render.DefaultTint.B},
		ModelOverrides: model.DefaultOverrides(),
	}
}

// Load reads a config file over the defaults. Keys absent from the file keep
// their default values; override tables merge entry-wise.
func Load(path string) (Config, error) {
	c := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if file.Scale > 0 {
		c.Scale = file.Scale
	}
	if file.CanvasSize > 0 {
		c.CanvasSize = file.CanvasSize
	}
	if file.AssetsBaseURL != "" {
		c.AssetsBaseURL = file.AssetsBaseURL
	}
	if file.CacheDir != "" {
		c.CacheDir = file.CacheDir
	}
	if file.Tint != (RGB{}) {
		c.Tint = file.Tint
	}
	for k, v := range file.ModelOverrides {
		c.ModelOverrides[k] = v
	}
	if len(file.TransparentKeywords) > 0 {
		c.TransparentKeywords = file.TransparentKeywords
	}
	return c, nil
}
