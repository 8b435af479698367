package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sensen02/litematicRender/internal/assets"
	"github.com/sensen02/litematicRender/internal/config"
	"github.com/sensen02/litematicRender/internal/render"
	"github.com/sensen02/litematicRender/internal/schem"
)

func main() {
	var (
		output     = flag.String("o", "", "output png path (single-file input only)")
		configPath = flag.String("config", "", "path to render.yaml (default: ./render.yaml if present)")
		cacheDir   = flag.String("cache", "", "asset cache directory (overrides config)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[render] ", log.LstdFlags|log.Lmicroseconds)

	input := flag.Arg(0)
	if input == "" {
		input = "."
	}

	cfg := loadConfig(strings.TrimSpace(*configPath), logger)
	if strings.TrimSpace(*cacheDir) != "" {
		cfg.CacheDir = strings.TrimSpace(*cacheDir)
	}

	store, err := assets.Open(assets.Options{
		BaseURL:  cfg.AssetsBaseURL,
		CacheDir: cfg.CacheDir,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatalf("open asset store: %v", err)
	}
	defer store.Close()

	scene := render.NewSceneRenderer(store, render.SceneOptions{
		Scale:               cfg.Scale,
		CanvasSize:          cfg.CanvasSize,
		Tint:                color.NRGBA{R: cfg.Tint.R, G: cfg.Tint.G, B: cfg.Tint.B, A: 255},
		TransparentKeywords: cfg.TransparentKeywords,
		ModelOverrides:      cfg.ModelOverrides,
		Logger:              logger,
	})

	st, err := os.Stat(input)
	if err != nil {
		logger.Fatalf("input %s: %v", input, err)
	}
	if st.IsDir() {
		if failed := renderDir(scene, input, logger); failed > 0 {
			os.Exit(1)
		}
		return
	}

	out := strings.TrimSpace(*output)
	if out == "" {
		out = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
	}
	if err := renderFile(scene, input, out, logger); err != nil {
		logger.Fatalf("render %s: %v", input, err)
	}
}

func loadConfig(path string, logger *log.Logger) config.Config {
	if path == "" {
		if _, err := os.Stat("render.yaml"); err != nil {
			return config.Defaults()
		}
		path = "render.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	logger.Printf("config loaded from %s", path)
	return cfg
}

// renderDir renders every .litematic in dir into dir/res, continuing past
// per-file failures. Returns the failure count.
func renderDir(scene *render.SceneRenderer, dir string, logger *log.Logger) int {
	files, err := filepath.Glob(filepath.Join(dir, "*.litematic"))
	if err != nil {
		logger.Fatalf("scan %s: %v", dir, err)
	}
	if len(files) == 0 {
		logger.Printf("no .litematic files found in %s", dir)
		return 0
	}

	resDir := filepath.Join(dir, "res")
	if err := os.MkdirAll(resDir, 0o755); err != nil {
		logger.Fatalf("create output dir %s: %v", resDir, err)
	}
	logger.Printf("found %d files to render", len(files))

	failed := 0
	for _, in := range files {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out := filepath.Join(resDir, base+".png")
		if err := renderFile(scene, in, out, logger); err != nil {
			logger.Printf("render %s: %v", in, err)
			failed++
		}
	}
	logger.Printf("rendered %d/%d", len(files)-failed, len(files))
	return failed
}

func renderFile(scene *render.SceneRenderer, in, out string, logger *log.Logger) error {
	logger.Printf("rendering %s -> %s", in, out)
	s, err := schem.Load(in)
	if err != nil {
		return err
	}
	reg := s.First()
	if reg == nil {
		return fmt.Errorf("%s: no regions", in)
	}
	if len(s.Regions) > 1 {
		logger.Printf("%s: %d regions, rendering %q only", in, len(s.Regions), reg.Name)
	}
	if err := scene.RenderToFile(reg, out); err != nil {
		return err
	}
	logger.Printf("saved %s", out)
	return nil
}
