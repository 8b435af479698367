package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/sensen02/litematicRender/internal/model"
)

// fakeAssets serves fixed models and textures.
type fakeAssets struct {
	models   map[string]model.Definition
	textures map[string]image.Image
}

func (f *fakeAssets) ModelFor(name string) (model.Definition, bool) {
	d, ok := f.models[name]
	return d, ok
}

func (f *fakeAssets) TextureFor(name string) (image.Image, bool) {
	img, ok := f.textures[name]
	return img, ok
}

func cubeDefinition(texture string) model.Definition {
	faces := map[string]model.FaceSpec{}
	for _, dir := range []string{"up", "down", "north", "south", "east", "west"} {
		faces[dir] = model.FaceSpec{Texture: "#all"}
	}
	return model.Definition{
		Elements: []model.Element{{
			From:  [3]float64{0, 0, 0},
			To:    [3]float64{16, 16, 16},
			Faces: faces,
		}},
		Textures: map[string]string{"all": texture},
	}
}

func solidTexture(c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func testAssets() *fakeAssets {
	return &fakeAssets{
		models: map[string]model.Definition{
			"block/stone": cubeDefinition("block/stone"),
		},
		textures: map[string]image.Image{
			"block/stone": solidTexture(color.NRGBA{R: 120, G: 120, B: 120, A: 255}),
		},
	}
}

func TestRenderSingleBlockCenteredAndCropped(t *testing.T) {
	grid := gridOf(map[[3]int]string{{0, 0, 0}: "minecraft:stone"})
	s := NewSceneRenderer(testAssets(), SceneOptions{Scale: 32, CanvasSize: 400})

	img, err := s.Render(grid)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		t.Fatalf("empty render")
	}
	if b.Dx() >= 400 || b.Dy() >= 400 {
		t.Fatalf("render not cropped: %v", b)
	}

	// The block sits at the world origin, which projects to the canvas
	// center; a full cube's silhouette is symmetric around it.
	ccx := (b.Min.X + b.Max.X) / 2
	ccy := (b.Min.Y + b.Max.Y) / 2
	if d := ccx - 200; d < -2 || d > 2 {
		t.Fatalf("crop center x = %d want ~200", ccx)
	}
	if d := ccy - 200; d < -2 || d > 2 {
		t.Fatalf("crop center y = %d want ~200", ccy)
	}

	// Expected silhouette width for a unit cube is 2*cos30*scale.
	if b.Dx() < 50 || b.Dx() > 60 {
		t.Fatalf("silhouette width = %d want ~55", b.Dx())
	}
}

func TestRenderTwoBlocksShareOccludedFace(t *testing.T) {
	assets := testAssets()
	single, err := NewSceneRenderer(assets, SceneOptions{Scale: 32, CanvasSize: 400}).
		Render(gridOf(map[[3]int]string{{0, 0, 0}: "minecraft:stone"}))
	if err != nil {
		t.Fatalf("single: %v", err)
	}
	double, err := NewSceneRenderer(assets, SceneOptions{Scale: 32, CanvasSize: 400}).
		Render(gridOf(map[[3]int]string{
			{0, 0, 0}: "minecraft:stone",
			{1, 0, 0}: "minecraft:stone",
		}))
	if err != nil {
		t.Fatalf("double: %v", err)
	}

	sw, dw := single.Bounds().Dx(), double.Bounds().Dx()
	if dw <= sw {
		t.Fatalf("double width %d not wider than single %d", dw, sw)
	}
	if dw >= 2*sw {
		t.Fatalf("double width %d not narrower than 2x single %d", dw, 2*sw)
	}
}

func TestRenderAllAirGrid(t *testing.T) {
	grid := &mapGrid{blocks: map[[3]int]string{}, maxX: 2, maxY: 2, maxZ: 2}
	img, err := NewSceneRenderer(testAssets(), SceneOptions{Scale: 32, CanvasSize: 200}).Render(grid)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, ok := opaqueBounds(img); ok {
		t.Fatalf("all-air grid produced opaque pixels")
	}
}

func TestRenderUnknownBlockSkipped(t *testing.T) {
	grid := gridOf(map[[3]int]string{{0, 0, 0}: "minecraft:mystery_block"})
	img, err := NewSceneRenderer(testAssets(), SceneOptions{Scale: 32, CanvasSize: 200}).Render(grid)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, ok := opaqueBounds(img); ok {
		t.Fatalf("unknown block drew pixels")
	}
}

func TestSpriteCacheReuse(t *testing.T) {
	assets := testAssets()
	resolver := model.NewResolver(assetSource{assets}, nil, nil)
	r := NewSpriteRenderer(assets, resolver, 32, DefaultTint, nil)

	a := r.Render("minecraft:stone", AllFaces)
	b := r.Render("minecraft:stone", AllFaces)
	if a == nil {
		t.Fatalf("sprite not rendered")
	}
	if a != b {
		t.Fatalf("cache missed for identical key")
	}
	// A different face set is a different cache entry.
	c := r.Render("minecraft:stone", FaceUp)
	if c == a {
		t.Fatalf("face set not part of the cache key")
	}
}

func TestSpriteUnresolvableTextureSkipsFace(t *testing.T) {
	assets := testAssets()
	def := cubeDefinition("block/stone")
	def.Textures = map[string]string{} // dangling #all
	assets.models["block/broken"] = def

	resolver := model.NewResolver(assetSource{assets}, nil, nil)
	r := NewSpriteRenderer(assets, resolver, 32, DefaultTint, nil)
	sprite := r.Render("minecraft:broken", AllFaces)
	if sprite == nil {
		t.Fatalf("sprite nil for model with elements")
	}
	if _, ok := opaqueBounds(sprite); ok {
		t.Fatalf("unresolvable texture still painted")
	}
}

func TestSpriteTintedFace(t *testing.T) {
	assets := testAssets()
	def := cubeDefinition("block/stone")
	zero := 0
	up := def.Elements[0].Faces["up"]
	up.TintIndex = &zero
	def.Elements[0].Faces = map[string]model.FaceSpec{"up": up}
	assets.models["block/grassy"] = def
	assets.textures["block/stone"] = solidTexture(color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	resolver := model.NewResolver(assetSource{assets}, nil, nil)
	r := NewSpriteRenderer(assets, resolver, 32, DefaultTint, nil)
	sprite := r.Render("minecraft:grassy", FaceUp)
	if sprite == nil {
		t.Fatalf("sprite nil")
	}
	// The up-face centroid projects to (64,48) in the 128px tile; white
	// multiplied by the tint is the tint itself.
	got := sprite.NRGBAAt(64, 48)
	if got != DefaultTint {
		t.Fatalf("tinted pixel = %+v want %+v", got, DefaultTint)
	}
}
