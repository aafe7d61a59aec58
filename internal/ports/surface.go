package ports

import (
	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/geometry"
)

// Surface is the zoomable image renderer.
type Surface interface {
	// Open loads a tile source and calls ready once it is displayed.
	Open(tileSource string, ready func())
	Transform() geometry.Transform
	ClearOverlays()
	AddOverlay(marker domain.Marker)
}

// ModeIndicator is the affordance that shows whether clicks place markers.
type ModeIndicator interface {
	SetPlacing(placing bool)
}

// PanelView renders the marker detail panel.
type PanelView interface {
	ShowLoading(marker domain.Marker)
	ShowDetail(detail domain.MarkerDetail)
	ShowChat(chat []domain.ChatMessage)
	ShowError(err error)
	SetInputEnabled(enabled bool)
	ClearInput()
	Hide()
}
