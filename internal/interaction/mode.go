// Package interaction tracks whether a click on the image places a marker.
package interaction

import (
	"sync"

	"github.com/bnema/zoommark/internal/ports"
)

type Mode int

const (
	ModeBrowse Mode = iota
	ModePlaceMarker
)

func (m Mode) String() string {
	switch m {
	case ModePlaceMarker:
		return "place-marker"
	default:
		return "browse"
	}
}

// Controller owns the interaction mode. Every transition is mirrored to
// the indicator so it never disagrees with Mode.
type Controller struct {
	mu        sync.Mutex
	mode      Mode
	indicator ports.ModeIndicator
}

func NewController(indicator ports.ModeIndicator) *Controller {
	return &Controller{indicator: indicator}
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Toggle flips the mode and returns the new one.
func (c *Controller) Toggle() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModePlaceMarker {
		c.setLocked(ModeBrowse)
	} else {
		c.setLocked(ModePlaceMarker)
	}
	return c.mode
}

// ForceOff returns to browse mode. It is idempotent.
func (c *Controller) ForceOff() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(ModeBrowse)
}

func (c *Controller) setLocked(mode Mode) {
	c.mode = mode
	if c.indicator != nil {
		c.indicator.SetPlacing(mode == ModePlaceMarker)
	}
}
