package render

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Quads whose edge vectors span less area than this are degenerate and the
// face is skipped.
const degenerateEps = 1e-6

// faceAffine computes the forward affine map sending the texture rect sr onto
// the destination quad: sr's top-left corner to quad TL, its top-right to TR
// and its bottom-left to BL. BR is implied, so non-parallelogram quads are
// approximated. Returns false for a degenerate quad.
func faceAffine(quad [4]mgl64.Vec2, sr image.Rectangle) (f64.Aff3, bool) {
	tw, th := float64(sr.Dx()), float64(sr.Dy())
	if tw == 0 || th == 0 {
		return f64.Aff3{}, false
	}
	ex := quad[1].Sub(quad[0]) // TL -> TR
	ey := quad[3].Sub(quad[0]) // TL -> BL
	if det := ex.X()*ey.Y() - ey.X()*ex.Y(); math.Abs(det) < degenerateEps {
		return f64.Aff3{}, false
	}
	a, b := ex.X()/tw, ey.X()/th
	d, e := ex.Y()/tw, ey.Y()/th
	c := quad[0].X() - a*float64(sr.Min.X) - b*float64(sr.Min.Y)
	f := quad[0].Y() - d*float64(sr.Min.X) - e*float64(sr.Min.Y)
	return f64.Aff3{a, b, c, d, e, f}, true
}

// warpFace paints tex onto dst across the quad, nearest-neighbor resampled
// for pixel-art fidelity and alpha-composited over what is already there.
// The forward transform of the source rect covers exactly the parallelogram
// spanned by the quad's TL/TR/BL corners, so no separate polygon mask is
// needed. Reports whether anything was drawn.
func warpFace(dst *image.NRGBA, tex image.Image, quad [4]mgl64.Vec2) bool {
	sr := tex.Bounds()
	m, ok := faceAffine(quad, sr)
	if !ok {
		return false
	}
	xdraw.NearestNeighbor.Transform(dst, m, tex, sr, xdraw.Over, nil)
	return true
}
