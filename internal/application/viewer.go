package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/geometry"
	"github.com/bnema/zoommark/internal/hittest"
	"github.com/bnema/zoommark/internal/interaction"
	"github.com/bnema/zoommark/internal/markers"
	"github.com/bnema/zoommark/internal/panel"
	"github.com/bnema/zoommark/internal/ports"
)

// PanelSession is the detail panel as seen by the viewer.
type PanelSession interface {
	Open(ctx context.Context, marker domain.Marker) error
	Close()
	PostMessage(ctx context.Context, text string) error
}

type ViewerOptions struct {
	Gateway   ports.Gateway
	Surface   ports.Surface
	Panel     PanelSession
	Mode      *interaction.Controller
	Store     *markers.Store
	Finder    hittest.Finder
	Names     panel.NameSource
	Prompter  ports.Prompter
	Tolerance float64
	Logger    *zap.Logger
}

// Viewer is one image-viewing session: it routes clicks either to marker
// creation or to the detail panel.
type Viewer struct {
	gateway   ports.Gateway
	surface   ports.Surface
	panel     PanelSession
	mode      *interaction.Controller
	store     *markers.Store
	finder    hittest.Finder
	names     panel.NameSource
	prompter  ports.Prompter
	tolerance float64
	logger    *zap.Logger

	mu      sync.Mutex
	imageID domain.ImageID
	image   domain.Image
	ready   bool
}

func NewViewer(opts ViewerOptions) (*Viewer, error) {
	if opts.Gateway == nil {
		return nil, errors.New("viewer gateway is required")
	}
	if opts.Surface == nil {
		return nil, errors.New("viewer surface is required")
	}
	if opts.Panel == nil {
		return nil, errors.New("viewer panel is required")
	}

	v := &Viewer{
		gateway:   opts.Gateway,
		surface:   opts.Surface,
		panel:     opts.Panel,
		mode:      opts.Mode,
		store:     opts.Store,
		finder:    opts.Finder,
		names:     opts.Names,
		prompter:  opts.Prompter,
		tolerance: opts.Tolerance,
		logger:    opts.Logger,
	}
	if v.mode == nil {
		v.mode = interaction.NewController(nil)
	}
	if v.store == nil {
		v.store = markers.NewStore()
	}
	if v.finder == nil {
		v.finder = hittest.LinearScan{}
	}
	if v.tolerance <= 0 {
		v.tolerance = hittest.DefaultTolerance
	}
	if v.logger == nil {
		v.logger = zap.NewNop()
	}

	return v, nil
}

// Load fetches the image and opens it on the surface. A viewer shows one
// image for its whole life; a second Load is rejected.
func (v *Viewer) Load(ctx context.Context, id domain.ImageID) error {
	if strings.TrimSpace(string(id)) == "" {
		return domain.ErrNoImageSelected
	}

	v.mu.Lock()
	if v.imageID != "" {
		v.mu.Unlock()
		return domain.ErrImageAlreadyLoaded
	}
	v.imageID = id
	v.mu.Unlock()

	image, err := v.gateway.GetImage(ctx, id)
	if err != nil {
		return fmt.Errorf("%w %s: %w", domain.ErrLoadFailed, id, err)
	}

	rejected := v.store.Load(image.Markers)
	logRejected(v.logger, id, rejected)

	v.mu.Lock()
	v.image = image
	v.mu.Unlock()

	v.logger.Info("image loaded",
		zap.String("image_id", string(id)),
		zap.Int("markers", v.store.Len()),
		zap.Int("rejected", len(rejected)),
	)
	v.surface.Open(image.TileSource, v.onReady)
	return nil
}

func (v *Viewer) Image() domain.Image {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.image
}

func (v *Viewer) Ready() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ready
}

func (v *Viewer) Mode() interaction.Mode {
	return v.mode.Mode()
}

func (v *Viewer) ToggleMode() interaction.Mode {
	return v.mode.Toggle()
}

func (v *Viewer) Markers() []domain.Marker {
	return v.store.All()
}

// HandleClick routes a click on the surface. In place-marker mode the mode
// is switched off before anything else, whatever the outcome.
func (v *Viewer) HandleClick(ctx context.Context, click geometry.PixelPoint) (ClickResult, error) {
	v.mu.Lock()
	loaded := v.imageID != "" && v.ready
	v.mu.Unlock()
	if !loaded {
		return ClickResult{}, domain.ErrNoImageSelected
	}

	if v.mode.Mode() == interaction.ModePlaceMarker {
		v.mode.ForceOff()
		return v.createMarker(ctx, click, v.surface.Transform())
	}

	marker, ok := v.finder.FindNearest(click, v.store.All(), v.surface.Transform(), v.tolerance)
	if !ok {
		return ClickResult{Kind: ClickIgnored}, nil
	}
	return ClickResult{Kind: ClickOpened, Marker: marker}, v.panel.Open(ctx, marker)
}

func (v *Viewer) ClosePanel() {
	v.panel.Close()
}

func (v *Viewer) PostMessage(ctx context.Context, text string) error {
	return v.panel.PostMessage(ctx, text)
}

// Leave ends the session: the panel is closed and the markers dropped.
func (v *Viewer) Leave() {
	v.panel.Close()
	v.mode.ForceOff()
	v.store.Reset()
	v.surface.ClearOverlays()
}

// createMarker uses the transform captured at click time so a pan or zoom
// during the prompts does not move the marker.
func (v *Viewer) createMarker(ctx context.Context, click geometry.PixelPoint, t geometry.Transform) (ClickResult, error) {
	point := geometry.ToNormalized(click, t)
	if !point.InImage() {
		return ClickResult{Kind: ClickIgnored}, domain.ErrOutsideImage
	}

	name, ok, err := v.ensureName(ctx)
	if err != nil {
		return ClickResult{}, err
	}
	if !ok {
		return ClickResult{Kind: ClickCancelled}, nil
	}

	if v.prompter == nil {
		return ClickResult{Kind: ClickCancelled}, nil
	}
	form, ok, err := v.prompter.AskMarker(ctx)
	if err != nil {
		return ClickResult{}, fmt.Errorf("ask marker details: %w", err)
	}
	input := domain.NewMarker{
		Title:       form.Title,
		Description: form.Description,
		X:           point.X,
		Y:           point.Y,
		User:        name,
	}.Normalize()
	if !ok || input.Title == "" {
		return ClickResult{Kind: ClickCancelled}, nil
	}
	if err := input.Validate(); err != nil {
		return ClickResult{}, err
	}

	v.mu.Lock()
	imageID := v.imageID
	v.mu.Unlock()

	created, err := v.gateway.PostMarker(ctx, imageID, input)
	if err != nil {
		v.notify(fmt.Sprintf("Could not save marker: %v", err))
		return ClickResult{}, fmt.Errorf("post marker: %w", err)
	}

	if !v.store.Append(created) {
		v.logger.Warn("created marker not added",
			zap.String("marker_id", string(created.ID)),
			zap.Error(created.Validate()),
		)
	}
	v.renderMarkers()
	return ClickResult{Kind: ClickCreated, Marker: created}, nil
}

func (v *Viewer) onReady() {
	v.mu.Lock()
	if v.ready {
		v.mu.Unlock()
		return
	}
	v.ready = true
	v.mu.Unlock()

	v.renderMarkers()
}

func (v *Viewer) renderMarkers() {
	v.surface.ClearOverlays()
	for _, m := range v.store.All() {
		v.surface.AddOverlay(m)
	}
}

func (v *Viewer) ensureName(ctx context.Context) (string, bool, error) {
	if v.names == nil {
		return "", false, nil
	}
	name, ok, err := v.names.Ensure(ctx)
	if err != nil {
		return "", false, fmt.Errorf("resolve display name: %w", err)
	}
	return name, ok, nil
}

func (v *Viewer) notify(message string) {
	if v.prompter != nil {
		v.prompter.Notify(message)
	}
}
