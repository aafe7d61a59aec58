package application

import (
	"net/url"

	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/geometry"
)

type GalleryEntry struct {
	Image domain.ImageSummary
	Link  string
}

// ViewerLink is the relative link that opens image id in the viewer.
func ViewerLink(id domain.ImageID) string {
	return "viewer?id=" + url.QueryEscape(string(id))
}

type PlacedMarker struct {
	Marker domain.Marker
	Screen geometry.PixelPoint
}

type ImageOverview struct {
	Image    domain.Image
	Markers  []PlacedMarker
	Rejected int
}

// ClickKind says what a click on the image ended up doing.
type ClickKind int

const (
	ClickIgnored ClickKind = iota
	ClickOpened
	ClickCreated
	ClickCancelled
)

func (k ClickKind) String() string {
	switch k {
	case ClickOpened:
		return "opened"
	case ClickCreated:
		return "created"
	case ClickCancelled:
		return "cancelled"
	default:
		return "ignored"
	}
}

type ClickResult struct {
	Kind   ClickKind
	Marker domain.Marker
}
