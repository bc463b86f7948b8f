// Package notify polls the backend for unread notifications and turns
// newly arrived high-fit matches into toasts. Read-state changes are
// applied optimistically and reconciled against the server's answer.
package notify

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hnguyen/recruitmail/internal/api"
	"github.com/hnguyen/recruitmail/internal/model"
)

const (
	// fetchTimeout bounds a single poll round trip.
	fetchTimeout = 15 * time.Second

	// maxToastsPerTick caps how many toasts one tick may emit.
	maxToastsPerTick = 3

	// ToastLifetime is how long a toast stays up without manual dismissal.
	ToastLifetime = 5 * time.Second
)

// Toast is one transient high-fit alert.
type Toast struct {
	ID           string
	Notification model.Notification
}

// TickMsg is a tea.Msg carrying one completed poll. Toasts holds at
// most maxToastsPerTick newly arrived high-fit notifications.
type TickMsg struct {
	Count  int
	Toasts []Toast
	Err    error
}

// Poller checks the unread count on a fixed interval, independent of
// which view is active.
type Poller struct {
	client   *api.Client
	log      *logrus.Entry
	interval time.Duration

	mu        sync.Mutex
	lastCount int
	primed    bool
	resultCh  chan TickMsg
	stopCh    chan struct{}
	running   bool
}

// New creates a poller. intervalSec below 1 falls back to 60.
func New(client *api.Client, intervalSec int, log *logrus.Entry) *Poller {
	if intervalSec < 1 {
		intervalSec = 60
	}
	return &Poller{
		client:   client,
		log:      log,
		interval: time.Duration(intervalSec) * time.Second,
		resultCh: make(chan TickMsg, 16),
	}
}

// Start launches the polling goroutine and returns a subscription
// command that delivers TickMsg values to the Bubble Tea runtime.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	stopCh := make(chan struct{})
	p.stopCh = stopCh
	p.mu.Unlock()

	go p.loop(stopCh)

	return p.waitForResult()
}

// Stop halts the polling goroutine. The count baseline is dropped so a
// later Start re-seeds instead of diffing against the old session.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	close(p.stopCh)
	p.running = false
	p.primed = false
	p.lastCount = 0
}

// WaitForNextResult returns a tea.Cmd that waits for the next poll
// result. Call it after processing a TickMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}

func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

func (p *Poller) loop(stopCh <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Prime the count immediately so the badge is right on startup.
	p.sendResult(p.Tick(context.Background()))

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			p.sendResult(p.Tick(context.Background()))
		}
	}
}

// Tick performs one poll: fetch the unread count, and when it grew
// since the previous tick, fetch the recent unread items and pick out
// the newly arrived high-fit matches. The observed count is updated on
// every successful tick whether or not anything toasted. The first
// successful tick only seeds the baseline; unread items that predate
// the session never toast.
func (p *Poller) Tick(ctx context.Context) TickMsg {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	count, err := p.client.UnreadCount(ctx)
	if err != nil {
		p.log.WithError(err).Debug("notification poll failed")
		return TickMsg{Err: err}
	}

	p.mu.Lock()
	prev := p.lastCount
	seeded := p.primed
	p.lastCount = count
	p.primed = true
	p.mu.Unlock()

	msg := TickMsg{Count: count}
	if !seeded || count <= prev {
		return msg
	}

	items, err := p.client.ListNotifications(ctx, true)
	if err != nil {
		p.log.WithError(err).Debug("fetching unread notifications failed")
		return msg
	}

	// The list is newest first; only the delta since the previous tick
	// counts as new.
	newItems := count - prev
	if newItems > len(items) {
		newItems = len(items)
	}

	for _, n := range items[:newItems] {
		if n.Read || n.Type != model.NotificationHighFitMatch {
			continue
		}
		msg.Toasts = append(msg.Toasts, Toast{
			ID:           uuid.New().String(),
			Notification: n,
		})
		if len(msg.Toasts) == maxToastsPerTick {
			break
		}
	}

	return msg
}

// ObservedCount returns the count recorded by the previous tick.
func (p *Poller) ObservedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCount
}

func (p *Poller) sendResult(msg TickMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if the channel is full to avoid blocking the poller.
	}
}
