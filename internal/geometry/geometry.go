// Package geometry maps between normalized image coordinates and on-screen
// pixel coordinates.
package geometry

import "math"

// Point is a position on the image expressed as fractions of its width and
// height, origin top-left.
type Point struct {
	X, Y float64
}

// InImage reports whether p lies inside the unit square, edges included.
func (p Point) InImage() bool {
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1
}

// PixelPoint is a position in screen pixels.
type PixelPoint struct {
	X, Y float64
}

// Transform is the current mapping between image space and screen space as
// supplied by the rendering surface. Implementations must be exact inverses
// of each other up to floating-point error.
type Transform interface {
	ToScreen(p Point) PixelPoint
	ToNormalized(p PixelPoint) Point
}

func ToNormalized(p PixelPoint, t Transform) Point {
	return t.ToNormalized(p)
}

func ToScreen(p Point, t Transform) PixelPoint {
	return t.ToScreen(p)
}

// Distance is the Euclidean distance between two screen points.
func Distance(a, b PixelPoint) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
