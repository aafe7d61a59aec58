package panel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bnema/zoommark/internal/domain"
)

var (
	markerA = domain.Marker{ID: "A", X: 0.2, Y: 0.3, Title: "Alpha"}
	markerB = domain.Marker{ID: "B", X: 0.7, Y: 0.6, Title: "Beta"}
)

type harness struct {
	manager   *Manager
	gateway   *fakeGateway
	view      *recordingView
	scheduler *fakeScheduler
	names     *staticNames
	notifier  *recordingNotifier
	logs      *observer.ObservedLogs
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		gateway:   newFakeGateway(),
		view:      &recordingView{},
		scheduler: &fakeScheduler{},
		names:     &staticNames{name: "ada", ok: true},
		notifier:  &recordingNotifier{},
	}
	h.gateway.setDetail("A", domain.MarkerDetail{Title: "Alpha", Description: "first", Chat: []domain.ChatMessage{{User: "bob", Text: "hi"}}})
	h.gateway.setDetail("B", domain.MarkerDetail{Title: "Beta", Description: "second"})

	core, logs := observer.New(zap.DebugLevel)
	h.logs = logs

	manager, err := NewManager(Options{
		Gateway:      h.gateway,
		View:         h.view,
		Scheduler:    h.scheduler,
		Names:        h.names,
		Notifier:     h.notifier,
		PollInterval: 2 * time.Second,
		Logger:       zap.New(core),
	})
	require.NoError(t, err)
	h.manager = manager
	return h
}

func TestNewManagerRequiresCollaborators(t *testing.T) {
	t.Parallel()

	_, err := NewManager(Options{View: &recordingView{}})
	require.Error(t, err)

	_, err = NewManager(Options{Gateway: newFakeGateway()})
	require.Error(t, err)
}

func TestNewManagerDefaultsPollInterval(t *testing.T) {
	t.Parallel()

	scheduler := &fakeScheduler{}
	gateway := newFakeGateway()
	gateway.setDetail("A", domain.MarkerDetail{Title: "Alpha"})
	m, err := NewManager(Options{Gateway: gateway, View: &recordingView{}, Scheduler: scheduler})
	require.NoError(t, err)

	require.NoError(t, m.Open(context.Background(), markerA))
	require.Len(t, scheduler.all(), 1)
	assert.Equal(t, DefaultPollInterval, scheduler.all()[0].interval)
}

func TestOpenShowsDetailAndStartsOneTimer(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	require.NoError(t, h.manager.Open(context.Background(), markerA))

	assert.Equal(t, StateOpen, h.manager.State())
	assert.Equal(t, domain.MarkerID("A"), h.manager.OpenMarkerID())
	assert.Equal(t, 1, h.manager.ActiveTimers())
	assert.Equal(t, []string{"loading:A", "detail:Alpha", "chat:1"}, h.view.snapshot())

	timers := h.scheduler.all()
	require.Len(t, timers, 1)
	assert.Equal(t, 2*time.Second, timers[0].interval)

	detail, chat := h.view.current()
	assert.Equal(t, "first", detail.Description)
	assert.Equal(t, []domain.ChatMessage{{User: "bob", Text: "hi"}}, chat)
}

func TestOpenSameMarkerTwiceIsNoop(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	require.NoError(t, h.manager.Open(context.Background(), markerA))
	require.NoError(t, h.manager.Open(context.Background(), markerA))

	assert.Equal(t, 1, h.gateway.calls("A"))
	assert.Len(t, h.scheduler.all(), 1)
	assert.Equal(t, 1, h.manager.ActiveTimers())
}

func TestOpenSameMarkerWhileOpeningIsNoop(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	gate := h.gateway.gate("A")

	done := make(chan error, 1)
	go func() { done <- h.manager.Open(context.Background(), markerA) }()
	require.Eventually(t, func() bool { return h.gateway.calls("A") == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, StateOpening, h.manager.State())

	require.NoError(t, h.manager.Open(context.Background(), markerA))
	close(gate)
	require.NoError(t, <-done)

	assert.Equal(t, 1, h.gateway.calls("A"))
	assert.Equal(t, 1, h.manager.ActiveTimers())
}

func TestSwitchingMarkersKeepsSingleTimer(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	require.NoError(t, h.manager.Open(context.Background(), markerA))
	require.NoError(t, h.manager.Open(context.Background(), markerB))

	assert.Equal(t, domain.MarkerID("B"), h.manager.OpenMarkerID())
	assert.Equal(t, 1, h.manager.ActiveTimers())
	require.Len(t, h.scheduler.all(), 2)
	assert.True(t, h.scheduler.all()[0].isStopped())
	assert.Len(t, h.scheduler.running(), 1)
	assert.Equal(t, []string{"loading:A", "detail:Alpha", "chat:1", "hide", "loading:B", "detail:Beta", "chat:0"}, h.view.snapshot())
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	gate := h.gateway.gate("A")

	done := make(chan error, 1)
	go func() { done <- h.manager.Open(context.Background(), markerA) }()
	require.Eventually(t, func() bool { return h.gateway.calls("A") == 1 }, time.Second, time.Millisecond)

	require.NoError(t, h.manager.Open(context.Background(), markerB))
	close(gate)
	require.NoError(t, <-done)

	assert.Equal(t, StateOpen, h.manager.State())
	assert.Equal(t, domain.MarkerID("B"), h.manager.OpenMarkerID())
	assert.Equal(t, 1, h.manager.ActiveTimers())
	assert.Len(t, h.scheduler.all(), 1)
	detail, _ := h.view.current()
	assert.Equal(t, "Beta", detail.Title)
	assert.Equal(t, 0, h.view.count("detail:Alpha"))
	assert.Equal(t, 1, h.logs.FilterMessage("discard stale marker detail").Len())
}

func TestStaleResponseForReopenedMarkerIsDiscarded(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	gate := h.gateway.gate("A")

	done := make(chan error, 1)
	go func() { done <- h.manager.Open(context.Background(), markerA) }()
	require.Eventually(t, func() bool { return h.gateway.calls("A") == 1 }, time.Second, time.Millisecond)

	require.NoError(t, h.manager.Open(context.Background(), markerB))
	h.gateway.setDetail("A", domain.MarkerDetail{Title: "Alpha", Description: "fresh"})
	require.NoError(t, h.manager.Open(context.Background(), markerA))

	h.gateway.setDetail("A", domain.MarkerDetail{Title: "Alpha", Description: "stale"})
	close(gate)
	require.NoError(t, <-done)

	detail, _ := h.view.current()
	assert.Equal(t, "fresh", detail.Description)
	assert.Equal(t, 1, h.manager.ActiveTimers())
	assert.Len(t, h.scheduler.running(), 1)
}

func TestOpenFailureShowsErrorWithoutTimer(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.gateway.setErr("A", errBackend)

	err := h.manager.Open(context.Background(), markerA)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBackend))
	assert.Equal(t, StateClosed, h.manager.State())
	assert.Equal(t, domain.MarkerID(""), h.manager.OpenMarkerID())
	assert.Equal(t, 0, h.manager.ActiveTimers())
	assert.Empty(t, h.scheduler.all())
	assert.Equal(t, []string{"loading:A", "error"}, h.view.snapshot())

	h.gateway.setErr("A", nil)
	require.NoError(t, h.manager.Open(context.Background(), markerA))
	assert.Equal(t, StateOpen, h.manager.State())
	assert.Equal(t, 1, h.manager.ActiveTimers())
	assert.Equal(t, 2, h.gateway.calls("A"))
}

func TestPollFetchesPerTickAndDiffsChat(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	require.NoError(t, h.manager.Open(context.Background(), markerA))

	h.scheduler.tick()
	assert.Equal(t, 2, h.gateway.calls("A"))
	assert.Equal(t, 1, h.view.count("chat:1"))

	h.gateway.setDetail("A", domain.MarkerDetail{
		Title:       "Alpha",
		Description: "first",
		Chat:        []domain.ChatMessage{{User: "bob", Text: "hi"}, {User: "eve", Text: "hey"}},
	})
	h.scheduler.tick()
	assert.Equal(t, 3, h.gateway.calls("A"))
	assert.Equal(t, 1, h.view.count("chat:2"))
	assert.Equal(t, 1, h.view.count("detail:Alpha"))

	h.gateway.setDetail("A", domain.MarkerDetail{
		Title:       "Alpha",
		Description: "edited",
		Chat:        []domain.ChatMessage{{User: "bob", Text: "hi"}, {User: "eve", Text: "hey"}},
	})
	h.scheduler.tick()
	assert.Equal(t, 1, h.view.count("chat:2"))
	assert.Equal(t, 2, h.view.count("detail:Alpha"))
	detail, chat := h.view.current()
	assert.Equal(t, "edited", detail.Description)
	assert.Len(t, chat, 2)
}

func TestPollFailureKeepsPolling(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	require.NoError(t, h.manager.Open(context.Background(), markerA))

	h.gateway.setErr("A", errBackend)
	h.scheduler.tick()
	assert.Equal(t, StateOpen, h.manager.State())
	assert.Equal(t, 1, h.manager.ActiveTimers())
	assert.Equal(t, 0, h.view.count("error"))
	assert.Equal(t, 1, h.logs.FilterMessage("poll marker detail").Len())

	h.gateway.setErr("A", nil)
	h.scheduler.tick()
	assert.Equal(t, 3, h.gateway.calls("A"))
}

func TestPollTicksAreNotPipelined(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	require.NoError(t, h.manager.Open(context.Background(), markerA))

	gate := h.gateway.gate("A")
	done := make(chan struct{})
	go func() {
		h.scheduler.tick()
		close(done)
	}()
	require.Eventually(t, func() bool { return h.gateway.calls("A") == 2 }, time.Second, time.Millisecond)

	h.scheduler.tick()
	assert.Equal(t, 2, h.gateway.calls("A"))

	close(gate)
	<-done
	h.scheduler.tick()
	assert.Equal(t, 3, h.gateway.calls("A"))
}

func TestCloseStopsTimerAndIgnoresLateTicks(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	require.NoError(t, h.manager.Open(context.Background(), markerA))
	timer := h.scheduler.all()[0]

	h.manager.Close()
	assert.Equal(t, StateClosed, h.manager.State())
	assert.Equal(t, 0, h.manager.ActiveTimers())
	assert.True(t, timer.isStopped())
	assert.Equal(t, "hide", h.view.snapshot()[len(h.view.snapshot())-1])

	timer.fn()
	assert.Equal(t, 1, h.gateway.calls("A"))

	h.manager.Close()
	assert.Equal(t, 1, h.view.count("hide"))
}

func TestCloseDiscardsInFlightPoll(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	require.NoError(t, h.manager.Open(context.Background(), markerA))

	gate := h.gateway.gate("A")
	h.gateway.setDetail("A", domain.MarkerDetail{Title: "Alpha", Chat: []domain.ChatMessage{{User: "x", Text: "late"}}})
	done := make(chan struct{})
	go func() {
		h.scheduler.tick()
		close(done)
	}()
	require.Eventually(t, func() bool { return h.gateway.calls("A") == 2 }, time.Second, time.Millisecond)

	h.manager.Close()
	events := len(h.view.snapshot())
	close(gate)
	<-done

	assert.Len(t, h.view.snapshot(), events)
	assert.Equal(t, StateClosed, h.manager.State())
}

func TestPostMessageRejectsBlankTextWithoutCalls(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	require.NoError(t, h.manager.Open(context.Background(), markerA))
	before := h.gateway.totalCalls()

	for _, text := range []string{"", "   ", "\t\n"} {
		err := h.manager.PostMessage(context.Background(), text)
		assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	}

	assert.Equal(t, before, h.gateway.totalCalls())
	assert.Equal(t, 0, h.names.calls)
}

func TestPostMessageRequiresOpenPanel(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	err := h.manager.PostMessage(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrNoOpenPanel)
	assert.Empty(t, h.gateway.postCalls())
}

func TestPostMessageSendsAndRefreshes(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	require.NoError(t, h.manager.Open(context.Background(), markerA))

	require.NoError(t, h.manager.PostMessage(context.Background(), "  looks like a spiral arm  "))

	assert.Equal(t, []postCall{{MarkerID: "A", User: "ada", Text: "looks like a spiral arm"}}, h.gateway.postCalls())
	assert.Equal(t, 2, h.gateway.calls("A"))
	_, chat := h.view.current()
	require.Len(t, chat, 2)
	assert.Equal(t, domain.ChatMessage{User: "ada", Text: "looks like a spiral arm"}, chat[1])

	events := h.view.snapshot()
	assert.Equal(t, []string{"input:false", "chat:2", "input:true", "clear"}, events[3:])
}

func TestPostMessageRefreshWinsOverOlderPoll(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.gateway.atRequest = true
	require.NoError(t, h.manager.Open(context.Background(), markerA))

	gate := h.gateway.gate("A")
	done := make(chan struct{})
	go func() {
		h.scheduler.tick()
		close(done)
	}()
	require.Eventually(t, func() bool { return h.gateway.calls("A") == 2 }, time.Second, time.Millisecond)

	require.NoError(t, h.manager.PostMessage(context.Background(), "hello"))
	_, chat := h.view.current()
	require.Len(t, chat, 2)

	close(gate)
	<-done

	_, chat = h.view.current()
	require.Len(t, chat, 2)
	assert.Equal(t, domain.ChatMessage{User: "ada", Text: "hello"}, chat[1])
	assert.Equal(t, "clear", h.view.snapshot()[len(h.view.snapshot())-1])
	assert.Equal(t, 1, h.logs.FilterMessage("discard out-of-order marker detail").Len())

	h.scheduler.tick()
	assert.Equal(t, 4, h.gateway.calls("A"))
	_, chat = h.view.current()
	assert.Len(t, chat, 2)
}

func TestPostMessageWithoutDisplayNameAborts(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.names.ok = false
	require.NoError(t, h.manager.Open(context.Background(), markerA))

	err := h.manager.PostMessage(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrEmptyDisplayName)
	assert.Empty(t, h.gateway.postCalls())
	assert.Equal(t, 1, h.view.count("input:true"))
}

func TestPostMessageFailureNotifiesAndKeepsChat(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.gateway.postErr = errBackend
	require.NoError(t, h.manager.Open(context.Background(), markerA))

	err := h.manager.PostMessage(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBackend))
	assert.Len(t, h.notifier.messages, 1)
	assert.Contains(t, h.notifier.messages[0], "backend unavailable")
	assert.Equal(t, StateOpen, h.manager.State())
	assert.Equal(t, 1, h.gateway.calls("A"))
	_, chat := h.view.current()
	assert.Len(t, chat, 1)
}

func TestPostMessageRejectsConcurrentSend(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	gate := make(chan struct{})
	h.gateway.postGate = gate
	require.NoError(t, h.manager.Open(context.Background(), markerA))

	done := make(chan error, 1)
	go func() { done <- h.manager.PostMessage(context.Background(), "first") }()
	require.Eventually(t, func() bool { return len(h.gateway.postCalls()) == 1 }, time.Second, time.Millisecond)

	err := h.manager.PostMessage(context.Background(), "second")
	assert.ErrorIs(t, err, ErrSendInProgress)

	close(gate)
	require.NoError(t, <-done)
	assert.Len(t, h.gateway.postCalls(), 1)

	require.NoError(t, h.manager.PostMessage(context.Background(), "third"))
	assert.Len(t, h.gateway.postCalls(), 2)
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "opening", StateOpening.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "closing", StateClosing.String())
}
