package application

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/geometry"
	"github.com/bnema/zoommark/internal/ports"
)

func mockAnyContext() interface{} {
	return mock.Anything
}

type fakeSurface struct {
	mu         sync.Mutex
	viewport   geometry.Viewport
	tileSource string
	ready      func()
	overlays   []domain.Marker
	clears     int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{viewport: geometry.NewViewport(1000, 800, 2000, 1000)}
}

func (s *fakeSurface) Open(tileSource string, ready func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tileSource = tileSource
	s.ready = ready
}

func (s *fakeSurface) fireReady() {
	s.mu.Lock()
	ready := s.ready
	s.mu.Unlock()
	if ready != nil {
		ready()
	}
}

func (s *fakeSurface) pan(dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = s.viewport.Pan(dx, dy)
}

func (s *fakeSurface) Transform() geometry.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

func (s *fakeSurface) ClearOverlays() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlays = nil
	s.clears++
}

func (s *fakeSurface) AddOverlay(marker domain.Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlays = append(s.overlays, marker)
}

func (s *fakeSurface) overlayIDs() []domain.MarkerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]domain.MarkerID, 0, len(s.overlays))
	for _, m := range s.overlays {
		ids = append(ids, m.ID)
	}
	return ids
}

type nopPanelView struct{}

func (nopPanelView) ShowLoading(domain.Marker) {}
func (nopPanelView) ShowDetail(domain.MarkerDetail) {}
func (nopPanelView) ShowChat([]domain.ChatMessage) {}
func (nopPanelView) ShowError(error) {}
func (nopPanelView) SetInputEnabled(bool) {}
func (nopPanelView) ClearInput() {}
func (nopPanelView) Hide() {}

type manualTimer struct {
	mu      sync.Mutex
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (s *manualScheduler) Every(_ time.Duration, fn func()) ports.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) tick() {
	s.mu.Lock()
	timers := append([]*manualTimer(nil), s.timers...)
	s.mu.Unlock()
	for _, t := range timers {
		t.mu.Lock()
		stopped := t.stopped
		t.mu.Unlock()
		if !stopped {
			t.fn()
		}
	}
}

type fixedNames struct {
	name string
	ok   bool
}

func (n fixedNames) Ensure(context.Context) (string, bool, error) {
	return n.name, n.ok, nil
}
