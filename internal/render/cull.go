// Package render turns a voxel grid into one isometric raster image: per
// block it culls hidden faces, renders cached sprites by warping textures
// onto projected face quads, and composites the sprites back to front.
package render

import (
	"strings"

	"github.com/sensen02/litematicRender/internal/iso"
)

// GridProvider is the voxel-grid contract the renderer works against.
// BlockAt must answer air for out-of-range coordinates since face culling
// probes one block past the declared bounds at the edges.
type GridProvider interface {
	Bounds() (minX, maxX, minY, maxY, minZ, maxZ int)
	BlockAt(x, y, z int) string
}

// FaceSet is a subset of the three renderable directions. The fixed viewpoint
// can never expose north, west or down, so those never appear.
type FaceSet uint8

const (
	FaceEast FaceSet = 1 << iota
	FaceSouth
	FaceUp

	AllFaces = FaceEast | FaceSouth | FaceUp
)

func faceBit(dir iso.Direction) FaceSet {
	switch dir {
	case iso.East:
		return FaceEast
	case iso.South:
		return FaceSouth
	case iso.Up:
		return FaceUp
	}
	return 0
}

func (s FaceSet) Has(dir iso.Direction) bool { return s&faceBit(dir) != 0 }
func (s FaceSet) Empty() bool                { return s == 0 }

func (s FaceSet) String() string {
	if s.Empty() {
		return "none"
	}
	parts := make([]string, 0, 3)
	for _, dir := range iso.RenderOrder {
		if s.Has(dir) {
			parts = append(parts, string(dir))
		}
	}
	return strings.Join(parts, ",")
}

// DefaultTransparentKeywords classify blocks whose faces must not occlude
// differing neighbors. Substring match against the block identifier.
func DefaultTransparentKeywords() []string {
	return []string{
		"glass", "ice", "water", "lava", "slime",
		"honey", "leaves", "beacon", "scaffolding", "spawner",
	}
}

// Culler decides which of a block's renderable faces are potentially visible.
type Culler struct {
	grid     GridProvider
	air      string
	keywords []string
}

// NewCuller wraps a grid. keywords may be nil for the default transparency
// classification.
func NewCuller(grid GridProvider, air string, keywords []string) *Culler {
	if keywords == nil {
		keywords = DefaultTransparentKeywords()
	}
	return &Culler{grid: grid, air: air, keywords: keywords}
}

func (c *Culler) transparent(id string) bool {
	for _, kw := range c.keywords {
		if strings.Contains(id, kw) {
			return true
		}
	}
	return false
}

// VisibleFaces classifies the three renderable faces of the block at
// (x,y,z). A face against grid edge or air stays visible; a transparent
// block hides a face only against an identical neighbor; an opaque block
// hides a face against any opaque neighbor.
func (c *Culler) VisibleFaces(x, y, z int, blockID string) FaceSet {
	faces := AllFaces
	probes := [...]struct {
		bit        FaceSet
		dx, dy, dz int
	}{
		{FaceEast, 1, 0, 0},
		{FaceSouth, 0, 0, 1},
		{FaceUp, 0, 1, 0},
	}
	targetTransparent := c.transparent(blockID)
	for _, p := range probes {
		neighbor := c.grid.BlockAt(x+p.dx, y+p.dy, z+p.dz)
		if neighbor == "" || neighbor == c.air {
			continue
		}
		if targetTransparent {
			if neighbor == blockID {
				faces &^= p.bit
			}
		} else if !c.transparent(neighbor) {
			faces &^= p.bit
		}
	}
	return faces
}
