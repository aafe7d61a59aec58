// Package panel runs the marker detail panel: one open marker at a time, its
// chat refreshed by a recurring poll while the panel stays open.
package panel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/ports"
)

const DefaultPollInterval = 5 * time.Second

var ErrSendInProgress = errors.New("a message is already being sent")

type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "closed"
	}
}

// NameSource resolves the display name used when posting.
type NameSource interface {
	Ensure(ctx context.Context) (string, bool, error)
}

// Notifier shows transient notices.
type Notifier interface {
	Notify(message string)
}

type Options struct {
	Gateway      ports.MarkerGateway
	View         ports.PanelView
	Scheduler    ports.Scheduler
	Names        NameSource
	Notifier     Notifier
	PollInterval time.Duration
	Logger       *zap.Logger
}

// Manager owns the panel session. View methods are called with the manager
// lock held and must not call back into the Manager.
type Manager struct {
	gateway   ports.MarkerGateway
	view      ports.PanelView
	scheduler ports.Scheduler
	names     NameSource
	notifier  Notifier
	interval  time.Duration
	logger    *zap.Logger

	mu      sync.Mutex
	state   State
	marker  domain.Marker
	episode uint64
	visible bool
	timer   ports.Timer
	timers  int
	polling bool
	sending bool
	// fetchSeq numbers detail requests as they are issued; applied is the
	// newest one shown. Older responses are dropped.
	fetchSeq uint64
	applied  uint64
	detail  domain.MarkerDetail
	chat    []domain.ChatMessage
}

func NewManager(opts Options) (*Manager, error) {
	if opts.Gateway == nil {
		return nil, errors.New("panel gateway is required")
	}
	if opts.View == nil {
		return nil, errors.New("panel view is required")
	}

	m := &Manager{
		gateway:   opts.Gateway,
		view:      opts.View,
		scheduler: opts.Scheduler,
		names:     opts.Names,
		notifier:  opts.Notifier,
		interval:  opts.PollInterval,
		logger:    opts.Logger,
	}
	if m.scheduler == nil {
		m.scheduler = ports.SystemScheduler{}
	}
	if m.interval <= 0 {
		m.interval = DefaultPollInterval
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}

	return m, nil
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// OpenMarkerID returns the marker being shown, or "" when the panel is closed.
func (m *Manager) OpenMarkerID() domain.MarkerID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateOpen || m.state == StateOpening {
		return m.marker.ID
	}
	return ""
}

// ActiveTimers is the number of poll timers currently installed. It is never
// more than one.
func (m *Manager) ActiveTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timers
}

// Open shows marker in the panel and starts polling its chat once the first
// fetch succeeds. Opening the marker that is already open is a no-op.
func (m *Manager) Open(ctx context.Context, marker domain.Marker) error {
	m.mu.Lock()
	if (m.state == StateOpen || m.state == StateOpening) && m.marker.ID == marker.ID {
		m.mu.Unlock()
		return nil
	}

	m.closeLocked()
	m.episode++
	episode := m.episode
	m.state = StateOpening
	m.marker = marker
	m.detail = domain.MarkerDetail{}
	m.chat = nil
	m.visible = true
	m.view.ShowLoading(marker)
	seq := m.nextFetchLocked()
	m.mu.Unlock()

	detail, err := m.gateway.GetMarkerDetail(ctx, marker.ID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.episode != episode {
		m.logger.Debug("discard stale marker detail", zap.String("marker_id", string(marker.ID)))
		return nil
	}
	if err != nil {
		m.state = StateClosed
		m.view.ShowError(err)
		return fmt.Errorf("open marker %s: %w", marker.ID, err)
	}

	m.applied = seq
	m.applyLocked(detail, true)
	m.state = StateOpen
	m.timer = m.scheduler.Every(m.interval, func() { m.poll(episode) })
	m.timers++
	m.logger.Debug("marker panel opened",
		zap.String("marker_id", string(marker.ID)),
		zap.Duration("poll_interval", m.interval),
	)

	return nil
}

// Close hides the panel and stops polling. No poll result is applied after
// Close returns.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
}

// PostMessage sends text to the open marker's chat and refreshes the chat
// from the server. The message is only shown once the server returns it.
func (m *Manager) PostMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyMessage
	}

	m.mu.Lock()
	if m.state != StateOpen {
		m.mu.Unlock()
		return domain.ErrNoOpenPanel
	}
	if m.sending {
		m.mu.Unlock()
		return ErrSendInProgress
	}
	m.sending = true
	episode := m.episode
	markerID := m.marker.ID
	m.view.SetInputEnabled(false)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.sending = false
		if m.episode == episode {
			m.view.SetInputEnabled(true)
			m.view.ClearInput()
		}
	}()

	name, ok, err := m.ensureName(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrEmptyDisplayName
	}

	if _, err := m.gateway.PostChatMessage(ctx, markerID, name, text); err != nil {
		m.notify(fmt.Sprintf("Could not send message: %v", err))
		return fmt.Errorf("post chat message: %w", err)
	}

	m.mu.Lock()
	seq := m.nextFetchLocked()
	m.mu.Unlock()

	detail, err := m.gateway.GetMarkerDetail(ctx, markerID)
	if err != nil {
		m.logger.Warn("refresh marker detail after post",
			zap.String("marker_id", string(markerID)),
			zap.Error(err),
		)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.episode == episode && m.state == StateOpen {
		m.applyFetchedLocked(seq, detail)
	}

	return nil
}

func (m *Manager) poll(episode uint64) {
	m.mu.Lock()
	if m.episode != episode || m.state != StateOpen || m.polling {
		m.mu.Unlock()
		return
	}
	m.polling = true
	markerID := m.marker.ID
	seq := m.nextFetchLocked()
	m.mu.Unlock()

	detail, err := m.gateway.GetMarkerDetail(context.Background(), markerID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.episode != episode {
		return
	}
	m.polling = false
	if err != nil {
		m.logger.Warn("poll marker detail",
			zap.String("marker_id", string(markerID)),
			zap.Error(err),
		)
		return
	}

	m.applyFetchedLocked(seq, detail)
}

func (m *Manager) nextFetchLocked() uint64 {
	m.fetchSeq++
	return m.fetchSeq
}

// applyFetchedLocked renders detail unless a response to a later request was
// already applied.
func (m *Manager) applyFetchedLocked(seq uint64, detail domain.MarkerDetail) {
	if seq <= m.applied {
		m.logger.Debug("discard out-of-order marker detail",
			zap.String("marker_id", string(m.marker.ID)),
			zap.Uint64("fetch", seq),
			zap.Uint64("applied", m.applied),
		)
		return
	}
	m.applied = seq
	m.applyLocked(detail, false)
}

func (m *Manager) applyLocked(detail domain.MarkerDetail, initial bool) {
	if initial || detail.Title != m.detail.Title || detail.Description != m.detail.Description {
		m.detail = domain.MarkerDetail{Title: detail.Title, Description: detail.Description}
		m.view.ShowDetail(m.detail)
	}
	if initial || !domain.SameChat(m.chat, detail.Chat) {
		m.chat = append([]domain.ChatMessage(nil), detail.Chat...)
		m.view.ShowChat(append([]domain.ChatMessage(nil), m.chat...))
	}
}

func (m *Manager) closeLocked() {
	if m.state == StateClosed && !m.visible {
		return
	}

	m.state = StateClosing
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
		m.timers--
	}
	m.episode++
	m.polling = false
	m.marker = domain.Marker{}
	m.detail = domain.MarkerDetail{}
	m.chat = nil
	if m.visible {
		m.view.Hide()
		m.visible = false
	}
	m.state = StateClosed
}

func (m *Manager) ensureName(ctx context.Context) (string, bool, error) {
	if m.names == nil {
		return "", false, nil
	}
	name, ok, err := m.names.Ensure(ctx)
	if err != nil {
		return "", false, fmt.Errorf("resolve display name: %w", err)
	}
	return name, ok && strings.TrimSpace(name) != "", nil
}

func (m *Manager) notify(message string) {
	if m.notifier != nil {
		m.notifier.Notify(message)
	}
}
