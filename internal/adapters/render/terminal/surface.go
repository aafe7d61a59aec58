package terminal

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/geometry"
	"github.com/bnema/zoommark/internal/ports"
)

// Surface is a virtual viewport over the image. Overlays are listed with
// their current screen positions instead of being painted.
type Surface struct {
	console *Console

	mu         sync.Mutex
	viewport   geometry.Viewport
	tileSource string
	overlays   []domain.Marker
	placing    bool
}

var (
	_ ports.Surface       = (*Surface)(nil)
	_ ports.ModeIndicator = (*Surface)(nil)
)

func NewSurface(console *Console, viewport geometry.Viewport) *Surface {
	return &Surface{console: console, viewport: viewport}
}

// Open has nothing to fetch in a terminal, so ready fires immediately.
func (s *Surface) Open(tileSource string, ready func()) {
	s.mu.Lock()
	s.tileSource = tileSource
	s.mu.Unlock()

	s.console.Println(s.console.styles.header.Render("tiles: " + tileSource))
	if ready != nil {
		ready()
	}
}

func (s *Surface) Transform() geometry.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

func (s *Surface) Viewport() geometry.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

func (s *Surface) ClearOverlays() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlays = nil
}

func (s *Surface) AddOverlay(marker domain.Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlays = append(s.overlays, marker)
}

func (s *Surface) SetPlacing(placing bool) {
	s.mu.Lock()
	s.placing = placing
	s.mu.Unlock()

	s.console.Println(modeButton(placing, s.console.styles))
}

func (s *Surface) Placing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placing
}

func (s *Surface) Pan(dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = s.viewport.Pan(dx, dy)
}

func (s *Surface) Zoom(factor float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = s.viewport.ZoomBy(factor)
}

// Rotate turns the view clockwise around the container center.
func (s *Surface) Rotate(radians float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = s.viewport.Rotate(radians)
}

// Overlays renders every overlay at its current screen position, flagging
// the ones outside the visible area.
func (s *Surface) Overlays() string {
	s.mu.Lock()
	overlays := append([]domain.Marker(nil), s.overlays...)
	viewport := s.viewport
	s.mu.Unlock()

	st := s.console.styles
	lines := []string{st.header.Render(fmt.Sprintf("markers: %d  zoom: %.2fx", len(overlays), viewport.Zoom))}
	if len(overlays) == 0 {
		lines = append(lines, st.empty.Render("No markers yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, m := range overlays {
		screen := viewport.ToScreen(geometry.Point{X: m.X, Y: m.Y})
		line := lipgloss.JoinHorizontal(
			lipgloss.Top,
			st.marker.Render("● "+string(m.ID)),
			" ",
			st.detail.Render(m.Title),
			" ",
			st.meta.Render(fmt.Sprintf("@ (%.0f, %.0f)", screen.X, screen.Y)),
		)
		if !visible(viewport, screen) {
			line += " " + st.empty.Render("[off-screen]")
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (s *Surface) PrintOverlays() {
	s.console.Println(s.Overlays())
}

func visible(v geometry.Viewport, p geometry.PixelPoint) bool {
	return p.X >= v.OffsetX && p.X <= v.OffsetX+v.Width && p.Y >= v.OffsetY && p.Y <= v.OffsetY+v.Height
}

func modeButton(placing bool, s styles) string {
	if placing {
		return s.placing.Render("[×] placing marker: click on the image")
	}
	return s.browsing.Render("[+] add marker")
}
