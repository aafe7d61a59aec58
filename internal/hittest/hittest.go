// Package hittest decides which marker, if any, a click selects.
package hittest

import (
	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/geometry"
)

// DefaultTolerance is the click radius in screen pixels.
const DefaultTolerance = 20.0

// Finder locates the marker nearest to a click. LinearScan is enough for the
// marker counts seen per image; a spatial index can implement the same
// interface.
type Finder interface {
	FindNearest(click geometry.PixelPoint, markers []domain.Marker, t geometry.Transform, tolerance float64) (domain.Marker, bool)
}

type LinearScan struct{}

var _ Finder = LinearScan{}

func (LinearScan) FindNearest(click geometry.PixelPoint, markers []domain.Marker, t geometry.Transform, tolerance float64) (domain.Marker, bool) {
	return FindNearest(click, markers, t, tolerance)
}

// FindNearest returns the marker whose projected position is closest to click
// and strictly within tolerance pixels. Ties go to the earliest marker.
func FindNearest(click geometry.PixelPoint, markers []domain.Marker, t geometry.Transform, tolerance float64) (domain.Marker, bool) {
	var (
		best     domain.Marker
		bestDist float64
		found    bool
	)

	for _, m := range markers {
		screen := geometry.ToScreen(geometry.Point{X: m.X, Y: m.Y}, t)
		dist := geometry.Distance(click, screen)
		if dist >= tolerance {
			continue
		}
		if !found || dist < bestDist {
			best, bestDist, found = m, dist, true
		}
	}

	return best, found
}
