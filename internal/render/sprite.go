package render

import (
	"image"
	"image/color"
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/sensen02/litematicRender/internal/iso"
	"github.com/sensen02/litematicRender/internal/model"
)

// AssetProvider supplies model definitions and decoded textures by name.
// Both lookups are idempotent; absence is (zero, false), never an error.
type AssetProvider interface {
	ModelFor(name string) (model.Definition, bool)
	TextureFor(name string) (image.Image, bool)
}

// DefaultTint approximates plains-biome grass coloring; faces with a tint
// marker get their RGB multiplied by it.
var DefaultTint = color.NRGBA{R: 145, G: 189, B: 89, A: 255}

type spriteKey struct {
	block string
	faces FaceSet
}

// SpriteRenderer renders one block's visible faces into a transparent square
// tile, memoized per (block identifier, face set). The cache lives for one
// render pass: build a fresh renderer per scene.
type SpriteRenderer struct {
	assets   AssetProvider
	resolver *model.Resolver
	scale    int
	tint     color.NRGBA
	cache    map[spriteKey]*image.NRGBA
	logger   *log.Logger
}

func NewSpriteRenderer(assets AssetProvider, resolver *model.Resolver, scale int, tint color.NRGBA, logger *log.Logger) *SpriteRenderer {
	return &SpriteRenderer{
		assets:   assets,
		resolver: resolver,
		scale:    scale,
		tint:     tint,
		cache:    map[spriteKey]*image.NRGBA{},
		logger:   logger,
	}
}

// Render returns the sprite tile for a block identifier, or nil when the
// block resolves to nothing drawable. The tile is shared via the cache;
// callers must not mutate it.
func (r *SpriteRenderer) Render(blockID string, faces FaceSet) *image.NRGBA {
	key := spriteKey{block: blockID, faces: faces}
	if sprite, ok := r.cache[key]; ok {
		return sprite
	}
	var sprite *image.NRGBA
	if def := r.resolver.Resolve(blockID); !def.Empty() {
		sprite = r.renderModel(blockID, def, faces)
	}
	r.cache[key] = sprite
	return sprite
}

// 4*scale bounds one block's isometric silhouette with room to spare.
func (r *SpriteRenderer) tileSize() int { return 4 * r.scale }

func (r *SpriteRenderer) renderModel(blockID string, def model.Definition, faces FaceSet) *image.NRGBA {
	size := r.tileSize()
	tile := image.NewNRGBA(image.Rect(0, 0, size, size))
	center := float64(size) / 2
	scale := float64(r.scale)

	for _, elem := range def.Elements {
		from := mgl64.Vec3{elem.From[0], elem.From[1], elem.From[2]}.Mul(1.0 / 16)
		to := mgl64.Vec3{elem.To[0], elem.To[1], elem.To[2]}.Mul(1.0 / 16)

		for _, dir := range iso.RenderOrder {
			spec, ok := elem.Faces[string(dir)]
			if !ok || !faces.Has(dir) {
				continue
			}
			path, ok := def.ResolveTexture(spec.Texture)
			if !ok {
				r.logf("render: %s: cannot resolve texture %q", blockID, spec.Texture)
				continue
			}
			tex, ok := r.assets.TextureFor(path)
			if !ok {
				continue
			}
			if spec.Tinted() {
				tex = tintImage(tex, r.tint)
			}

			var quad [4]mgl64.Vec2
			for i, corner := range iso.FaceCorners(from, to, dir) {
				p := iso.Project(corner.X(), corner.Y(), corner.Z(), scale)
				quad[i] = mgl64.Vec2{center + p.X(), center - p.Y()}
			}
			warpFace(tile, tex, quad)
		}
	}
	return tile
}

func (r *SpriteRenderer) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

// tintImage multiplies the RGB channels by the tint color, leaving alpha
// untouched.
func tintImage(src image.Image, tint color.NRGBA) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			out.SetNRGBA(x-b.Min.X, y-b.Min.Y, color.NRGBA{
				R: uint8(uint16(c.R) * uint16(tint.R) / 255),
				G: uint8(uint16(c.G) * uint16(tint.G) / 255),
				B: uint8(uint16(c.B) * uint16(tint.B) / 255),
				A: c.A,
			})
		}
	}
	return out
}
