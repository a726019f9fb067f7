package runner

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/focusbuddy/focusd/internal/domain"
)

// EventFocusLost is the advisory signal emitted when the user's view loses
// the foreground during a running focus session. It never pauses the
// countdown.
const EventFocusLost domain.EventKind = "focus_lost"

// SessionHooks receives the persistence side effects of timer lifecycle
// transitions. Calls happen in runner goroutines, fire-and-forget: a hook
// failure is logged and surfaced by the hook's owner, never unwound into
// timer state.
type SessionHooks interface {
	BeginFocusSession(userID string, st domain.SessionType, minutes int) (string, error)
	CompleteFocusSession(userID, sessionID string, minutes int) error
	CancelFocusSession(userID, sessionID string) error
}

// TimerRunner owns one user's timer. A single goroutine delivers ticks
// from a fixed-interval ticker; all transitions happen under the runner
// lock, so ticks for one virtual second are applied exactly once and a
// cancel takes effect before any later tick.
type TimerRunner struct {
	mu sync.Mutex

	userID string
	timer  *domain.Timer
	hooks  SessionHooks

	ctx    context.Context
	cancel context.CancelFunc
	events chan domain.Event

	sessionID  string
	foreground bool
	lastActive time.Time
}

func newTimerRunner(userID string, hooks SessionHooks, tick time.Duration) *TimerRunner {
	ctx, cancel := context.WithCancel(context.Background())
	r := &TimerRunner{
		userID:     userID,
		timer:      domain.NewTimer(),
		hooks:      hooks,
		ctx:        ctx,
		cancel:     cancel,
		events:     make(chan domain.Event, 64),
		foreground: true,
		lastActive: time.Now(),
	}

	go r.loop(tick)

	return r
}

func (r *TimerRunner) loop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			ev := r.timer.Tick()
			var sessionID string
			if ev != nil && ev.Kind == domain.EventCompleted {
				sessionID = r.sessionID
				r.sessionID = ""
			}
			r.mu.Unlock()

			if ev == nil {
				continue
			}
			r.emit(*ev)

			if ev.Kind == domain.EventCompleted && ev.SessionType == domain.SessionFocus && r.hooks != nil {
				go func(minutes int) {
					if err := r.hooks.CompleteFocusSession(r.userID, sessionID, minutes); err != nil {
						log.Printf("runner: record completion for %s: %v", r.userID, err)
					}
				}(ev.Minutes)
			}

		case <-r.ctx.Done():
			return
		}
	}
}

// Start begins or resumes the countdown. A fresh focus start persists a
// new session record in the background; resuming does not.
func (r *TimerRunner) Start() {
	r.mu.Lock()
	ev := r.timer.Start()
	minutes := r.timer.Snapshot().Total / 60
	r.lastActive = time.Now()
	r.mu.Unlock()

	if ev == nil {
		return
	}
	r.emit(*ev)

	if ev.SessionType == domain.SessionFocus && r.hooks != nil {
		go func(st domain.SessionType) {
			id, err := r.hooks.BeginFocusSession(r.userID, st, minutes)
			if err != nil {
				log.Printf("runner: record start for %s: %v", r.userID, err)
				return
			}
			r.mu.Lock()
			r.sessionID = id
			r.mu.Unlock()
		}(ev.SessionType)
	}
}

func (r *TimerRunner) Pause() {
	r.mu.Lock()
	r.timer.Pause()
	r.lastActive = time.Now()
	r.mu.Unlock()
}

// Cancel abandons a running session synchronously: the transition happens
// under the runner lock, so no later tick can land first.
func (r *TimerRunner) Cancel() {
	r.mu.Lock()
	ev := r.timer.Cancel()
	sessionID := r.sessionID
	r.sessionID = ""
	r.lastActive = time.Now()
	r.mu.Unlock()

	if ev == nil {
		return
	}
	r.emit(*ev)

	if ev.SessionType == domain.SessionFocus && r.hooks != nil {
		go func() {
			if err := r.hooks.CancelFocusSession(r.userID, sessionID); err != nil {
				log.Printf("runner: discard cancelled session for %s: %v", r.userID, err)
			}
		}()
	}
}

func (r *TimerRunner) Reset() {
	r.mu.Lock()
	r.timer.Reset()
	r.lastActive = time.Now()
	r.mu.Unlock()
}

func (r *TimerRunner) SetSessionType(st domain.SessionType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = time.Now()
	return r.timer.SetSessionType(st)
}

func (r *TimerRunner) AdjustDuration(st domain.SessionType, deltaMinutes int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = time.Now()
	return r.timer.AdjustDuration(st, deltaMinutes)
}

// SetVisibility records whether the user's view is foregrounded. Losing
// the foreground during a running focus session emits an advisory event;
// ticking continues regardless.
func (r *TimerRunner) SetVisibility(foreground bool) {
	r.mu.Lock()
	r.foreground = foreground
	advise := !foreground &&
		r.timer.State() == domain.StateRunning &&
		r.timer.SessionType() == domain.SessionFocus
	remaining := r.timer.Remaining()
	st := r.timer.SessionType()
	r.mu.Unlock()

	if advise {
		r.emit(domain.Event{Kind: EventFocusLost, SessionType: st, Remaining: remaining})
	}
}

func (r *TimerRunner) Snapshot() domain.TimerSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timer.Snapshot()
}

func (r *TimerRunner) Events() <-chan domain.Event {
	return r.events
}

func (r *TimerRunner) stop() {
	r.cancel()
}

func (r *TimerRunner) idleSince() (bool, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timer.State() != domain.StateRunning, r.lastActive
}

func (r *TimerRunner) emit(ev domain.Event) {
	select {
	case r.events <- ev:
	default:
	}
}
