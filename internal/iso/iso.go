// Package iso holds the isometric projection math and the face geometry
// shared by the sprite renderer and the scene compositor.
package iso

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Classic 2:1 isometric view: 45 degree rotation, 30 degree tilt.
var (
	cos30 = math.Cos(30 * math.Pi / 180)
	sin30 = math.Sin(30 * math.Pi / 180)
)

// Project maps a world-space position to 2D isometric screen coordinates.
// Screen Y grows upward here; callers invert it when addressing image rows.
func Project(x, y, z, scale float64) mgl64.Vec2 {
	return mgl64.Vec2{
		(x - z) * cos30 * scale,
		y*scale - (x+z)*sin30*scale,
	}
}

// Direction is one of the six axis-aligned cuboid face directions, named the
// way block model JSON names them.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// RenderOrder is the fixed per-sprite draw order. The viewpoint can only ever
// expose east (+X), south (+Z) and up (+Y); up is painted last so top pixels
// win over side faces at shared silhouette edges.
var RenderOrder = [3]Direction{East, South, Up}

// FaceCorners returns the four corners of a cuboid face in block-local
// coordinates, ordered top-left, top-right, bottom-right, bottom-left as seen
// from outside the cuboid. from must be the per-axis minimum and to the
// maximum.
func FaceCorners(from, to mgl64.Vec3, dir Direction) [4]mgl64.Vec3 {
	x1, y1, z1 := from.X(), from.Y(), from.Z()
	x2, y2, z2 := to.X(), to.Y(), to.Z()
	switch dir {
	case Up:
		return [4]mgl64.Vec3{{x1, y2, z1}, {x2, y2, z1}, {x2, y2, z2}, {x1, y2, z2}}
	case Down:
		return [4]mgl64.Vec3{{x1, y1, z1}, {x2, y1, z1}, {x2, y1, z2}, {x1, y1, z2}}
	case North:
		return [4]mgl64.Vec3{{x2, y2, z1}, {x1, y2, z1}, {x1, y1, z1}, {x2, y1, z1}}
	case South:
		return [4]mgl64.Vec3{{x1, y2, z2}, {x2, y2, z2}, {x2, y1, z2}, {x1, y1, z2}}
	case East:
		return [4]mgl64.Vec3{{x2, y2, z2}, {x2, y2, z1}, {x2, y1, z1}, {x2, y1, z2}}
	case West:
		return [4]mgl64.Vec3{{x1, y2, z1}, {x1, y2, z2}, {x1, y1, z2}, {x1, y1, z1}}
	}
	return [4]mgl64.Vec3{}
}
