package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/sensen02/litematicRender/internal/iso"
	"github.com/sensen02/litematicRender/internal/model"
)

// SceneOptions tune a scene render. Zero values fall back to the defaults
// the original asset pack was tuned for.
type SceneOptions struct {
	// Scale is the pixel height of one block edge. Default 32.
	Scale int
	// CanvasSize is the square working canvas edge; scenes are composited
	// around its center and cropped afterwards. Default 2000.
	CanvasSize int
	// AirBlock marks empty grid cells. Default "minecraft:air".
	AirBlock string
	// Tint multiplies tinted faces. Default DefaultTint.
	Tint color.NRGBA
	// TransparentKeywords override the transparency classification.
	TransparentKeywords []string
	// ModelOverrides override the manual block-to-model table.
	ModelOverrides map[string]string
	Logger         *log.Logger
}

func (o *SceneOptions) applyDefaults() {
	if o.Scale <= 0 {
		o.Scale = 32
	}
	if o.CanvasSize <= 0 {
		o.CanvasSize = 2000
	}
	if o.AirBlock == "" {
		o.AirBlock = "minecraft:air"
	}
	if o.Tint == (color.NRGBA{}) {
		o.Tint = DefaultTint
	}
}

// SceneRenderer composites whole voxel grids into cropped raster images.
type SceneRenderer struct {
	assets AssetProvider
	opts   SceneOptions
}

func NewSceneRenderer(assets AssetProvider, opts SceneOptions) *SceneRenderer {
	opts.applyDefaults()
	return &SceneRenderer{assets: assets, opts: opts}
}

// Render sweeps the grid in ascending (Y, Z, X) order, pasting each non-air
// block's sprite centered on its projected anchor. That single fixed order
// is what makes the painter's algorithm come out right under this
// projection: no block drawn later can sit visually behind an earlier one.
// The result is cropped to its opaque bounding box; a fully transparent
// result (all-air grid) is returned uncropped.
func (s *SceneRenderer) Render(grid GridProvider) (*image.NRGBA, error) {
	canvas := image.NewNRGBA(image.Rect(0, 0, s.opts.CanvasSize, s.opts.CanvasSize))
	cx := float64(s.opts.CanvasSize) / 2
	cy := float64(s.opts.CanvasSize) / 2

	resolver := model.NewResolver(assetSource{s.assets}, s.opts.ModelOverrides, s.opts.Logger)
	sprites := NewSpriteRenderer(s.assets, resolver, s.opts.Scale, s.opts.Tint, s.opts.Logger)
	culler := NewCuller(grid, s.opts.AirBlock, s.opts.TransparentKeywords)
	scale := float64(s.opts.Scale)

	minX, maxX, minY, maxY, minZ, maxZ := grid.Bounds()
	for y := minY; y <= maxY; y++ {
		for z := minZ; z <= maxZ; z++ {
			for x := minX; x <= maxX; x++ {
				id := grid.BlockAt(x, y, z)
				if id == "" || id == s.opts.AirBlock {
					continue
				}
				faces := culler.VisibleFaces(x, y, z, id)
				if faces.Empty() {
					continue
				}
				sprite := sprites.Render(id, faces)
				if sprite == nil {
					continue
				}
				p := iso.Project(float64(x), float64(y), float64(z), scale)
				sw, sh := sprite.Bounds().Dx(), sprite.Bounds().Dy()
				px := int(cx+p.X()) - sw/2
				py := int(cy-p.Y()) - sh/2
				paste(canvas, sprite, px, py)
			}
		}
	}

	if bbox, ok := opaqueBounds(canvas); ok {
		return canvas.SubImage(bbox).(*image.NRGBA), nil
	}
	return canvas, nil
}

// RenderToFile renders the grid and writes the cropped result as PNG.
func (s *SceneRenderer) RenderToFile(grid GridProvider, outPath string) error {
	img, err := s.Render(grid)
	if err != nil {
		return err
	}
	return WritePNG(outPath, img)
}

func paste(dst *image.NRGBA, src *image.NRGBA, x, y int) {
	r := image.Rect(x, y, x+src.Bounds().Dx(), y+src.Bounds().Dy())
	xdraw.Draw(dst, r, src, src.Bounds().Min, xdraw.Over)
}

// opaqueBounds returns the bounding box of pixels with non-zero alpha.
func opaqueBounds(img *image.NRGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// WritePNG writes img to path, creating parent directories as needed.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// assetSource adapts the asset provider to the resolver's model-only view.
type assetSource struct {
	assets AssetProvider
}

func (a assetSource) ModelFor(name string) (model.Definition, bool) {
	return a.assets.ModelFor(name)
}
