package geometry

import (
	"errors"
	"math"
)

// affine is a 2x3 matrix stored column-major: x' = m[0]*x + m[2]*y + m[4],
// y' = m[1]*x + m[3]*y + m[5].
type affine [6]float64

var identityAffine = affine{1, 0, 0, 1, 0, 0}

func (m affine) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// invert returns the inverse of m, or identity when m is singular.
func (m affine) invert() affine {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityAffine
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Viewport is a zoomable, pannable view of one image inside a screen
// container. The image is fitted to the container at Zoom 1.
type Viewport struct {
	// OffsetX and OffsetY locate the container's top-left corner on screen.
	OffsetX, OffsetY float64
	// Width and Height are the container size in screen pixels.
	Width, Height float64
	// ImageWidth and ImageHeight are the source image size in pixels. Only
	// their ratio affects the mapping.
	ImageWidth, ImageHeight float64
	// Zoom is the scale factor relative to fit-to-container.
	Zoom float64
	// CenterX and CenterY are the normalized image point shown at the
	// container center.
	CenterX, CenterY float64
	// Rotation is the view rotation in radians (clockwise).
	Rotation float64
}

// NewViewport returns a viewport showing the whole image centered at zoom 1.
func NewViewport(width, height, imageWidth, imageHeight float64) Viewport {
	return Viewport{
		Width:       width,
		Height:      height,
		ImageWidth:  imageWidth,
		ImageHeight: imageHeight,
		Zoom:        1,
		CenterX:     0.5,
		CenterY:     0.5,
	}
}

func (v Viewport) Validate() error {
	if !(v.Width > 0) || !(v.Height > 0) {
		return errors.New("viewport size must be positive")
	}
	if !(v.ImageWidth > 0) || !(v.ImageHeight > 0) {
		return errors.New("image size must be positive")
	}
	if !(v.Zoom > 0) || math.IsInf(v.Zoom, 0) {
		return errors.New("zoom must be positive and finite")
	}

	return nil
}

var _ Transform = Viewport{}

func (v Viewport) ToScreen(p Point) PixelPoint {
	x, y := v.matrix().apply(p.X, p.Y)
	return PixelPoint{X: x, Y: y}
}

func (v Viewport) ToNormalized(p PixelPoint) Point {
	x, y := v.matrix().invert().apply(p.X, p.Y)
	return Point{X: x, Y: y}
}

// Pan moves the image content by (dx, dy) screen pixels.
func (v Viewport) Pan(dx, dy float64) Viewport {
	cx, cy := v.screenCenter()
	center := v.ToNormalized(PixelPoint{X: cx - dx, Y: cy - dy})
	v.CenterX, v.CenterY = center.X, center.Y
	return v
}

// ZoomBy multiplies the zoom by factor, keeping the center fixed. Non-positive
// factors are ignored.
func (v Viewport) ZoomBy(factor float64) Viewport {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return v
	}
	v.Zoom *= factor
	return v
}

func (v Viewport) Rotate(radians float64) Viewport {
	v.Rotation += radians
	return v
}

func (v Viewport) screenCenter() (float64, float64) {
	return v.OffsetX + v.Width/2, v.OffsetY + v.Height/2
}

func (v Viewport) fitScale() float64 {
	if v.ImageWidth <= 0 || v.ImageHeight <= 0 {
		return 0
	}
	return math.Min(v.Width/v.ImageWidth, v.Height/v.ImageHeight)
}

// matrix builds
//
//	Translate(center) * Scale(zoom*fit) * Rotate(rotation) * Translate(-centerPx) * Scale(imageSize)
//
// which takes a normalized point to screen pixels.
func (v Viewport) matrix() affine {
	s := v.Zoom * v.fitScale()
	cos := math.Cos(v.Rotation)
	sin := math.Sin(v.Rotation)
	cx, cy := v.screenCenter()
	px := v.CenterX * v.ImageWidth
	py := v.CenterY * v.ImageHeight

	a := s * cos * v.ImageWidth
	b := -s * sin * v.ImageHeight
	c := s * sin * v.ImageWidth
	d := s * cos * v.ImageHeight
	tx := cx - s*(cos*px-sin*py)
	ty := cy - s*(sin*px+cos*py)

	return affine{a, c, b, d, tx, ty}
}
