package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/ports"
)

type fakeTimer struct {
	mu       sync.Mutex
	interval time.Duration
	fn       func()
	stopped  bool
}

func (t *fakeTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTimer) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) Every(interval time.Duration, fn func()) ports.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{interval: interval, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) all() []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*fakeTimer(nil), s.timers...)
}

func (s *fakeScheduler) running() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range s.all() {
		if !t.isStopped() {
			out = append(out, t)
		}
	}
	return out
}

// tick fires every timer that has not been stopped.
func (s *fakeScheduler) tick() {
	for _, t := range s.running() {
		t.fn()
	}
}

type postCall struct {
	MarkerID domain.MarkerID
	User     string
	Text     string
}

type fakeGateway struct {
	mu          sync.Mutex
	details     map[domain.MarkerID]domain.MarkerDetail
	errs        map[domain.MarkerID]error
	gates       map[domain.MarkerID]chan struct{}
	detailCalls map[domain.MarkerID]int
	posts       []postCall
	postErr     error
	postGate    chan struct{}
	// atRequest makes a detail fetch answer with the state seen when the
	// request arrived, like a server would, even if it is held by a gate.
	atRequest bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		details:     map[domain.MarkerID]domain.MarkerDetail{},
		errs:        map[domain.MarkerID]error{},
		gates:       map[domain.MarkerID]chan struct{}{},
		detailCalls: map[domain.MarkerID]int{},
	}
}

func (g *fakeGateway) setDetail(id domain.MarkerID, detail domain.MarkerDetail) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.details[id] = detail
}

func (g *fakeGateway) setErr(id domain.MarkerID, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs[id] = err
}

// gate blocks the next detail fetch of id until the returned channel is
// closed.
func (g *fakeGateway) gate(id domain.MarkerID) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch := make(chan struct{})
	g.gates[id] = ch
	return ch
}

func (g *fakeGateway) calls(id domain.MarkerID) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.detailCalls[id]
}

func (g *fakeGateway) totalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	total := len(g.posts)
	for _, n := range g.detailCalls {
		total += n
	}
	return total
}

func (g *fakeGateway) postCalls() []postCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]postCall(nil), g.posts...)
}

func (g *fakeGateway) GetMarkerDetail(ctx context.Context, id domain.MarkerID) (domain.MarkerDetail, error) {
	g.mu.Lock()
	g.detailCalls[id]++
	gate := g.gates[id]
	delete(g.gates, id)
	early, earlyOK := g.details[id]
	early.Chat = append([]domain.ChatMessage(nil), early.Chat...)
	atRequest := g.atRequest
	g.mu.Unlock()

	if gate != nil {
		<-gate
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if atRequest {
		if !earlyOK {
			return domain.MarkerDetail{}, domain.ErrMarkerNotFound
		}
		return early, nil
	}
	if err := g.errs[id]; err != nil {
		return domain.MarkerDetail{}, err
	}
	detail, ok := g.details[id]
	if !ok {
		return domain.MarkerDetail{}, domain.ErrMarkerNotFound
	}
	return detail, nil
}

func (g *fakeGateway) PostChatMessage(ctx context.Context, id domain.MarkerID, user, text string) (domain.ChatMessage, error) {
	g.mu.Lock()
	g.posts = append(g.posts, postCall{MarkerID: id, User: user, Text: text})
	gate := g.postGate
	err := g.postErr
	g.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return domain.ChatMessage{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	detail := g.details[id]
	msg := domain.ChatMessage{User: user, Text: text}
	detail.Chat = append(append([]domain.ChatMessage(nil), detail.Chat...), msg)
	g.details[id] = detail
	return msg, nil
}

type recordingView struct {
	mu     sync.Mutex
	events []string
	detail domain.MarkerDetail
	chat   []domain.ChatMessage
}

func (v *recordingView) record(event string) {
	v.events = append(v.events, event)
}

func (v *recordingView) ShowLoading(marker domain.Marker) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.chat = nil
	v.record("loading:" + string(marker.ID))
}

func (v *recordingView) ShowDetail(detail domain.MarkerDetail) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.detail = detail
	v.record("detail:" + detail.Title)
}

func (v *recordingView) ShowChat(chat []domain.ChatMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.chat = chat
	v.record(fmt.Sprintf("chat:%d", len(chat)))
}

func (v *recordingView) ShowError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("error")
}

func (v *recordingView) SetInputEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record(fmt.Sprintf("input:%t", enabled))
}

func (v *recordingView) ClearInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("clear")
}

func (v *recordingView) Hide() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("hide")
}

func (v *recordingView) snapshot() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.events...)
}

func (v *recordingView) count(event string) int {
	n := 0
	for _, e := range v.snapshot() {
		if e == event {
			n++
		}
	}
	return n
}

func (v *recordingView) current() (domain.MarkerDetail, []domain.ChatMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.detail, append([]domain.ChatMessage(nil), v.chat...)
}

type staticNames struct {
	name  string
	ok    bool
	err   error
	calls int
}

func (n *staticNames) Ensure(context.Context) (string, bool, error) {
	n.calls++
	return n.name, n.ok, n.err
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

var errBackend = errors.New("backend unavailable")
