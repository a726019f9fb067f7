package runner

import (
	"sync"
	"time"

	"github.com/focusbuddy/focusd/internal/domain"
)

// TimerManager keeps one TimerRunner per user, creating them on first
// touch and reaping the ones that have sat idle.
type TimerManager struct {
	mu      sync.Mutex
	runners map[string]*TimerRunner
	hooks   SessionHooks
	tick    time.Duration
}

func NewTimerManager(hooks SessionHooks) *TimerManager {
	return newTimerManager(hooks, time.Second)
}

// NewTimerManagerWithTick shortens the virtual second. Tests use it to run
// whole sessions without waiting on wall-clock time.
func NewTimerManagerWithTick(hooks SessionHooks, tick time.Duration) *TimerManager {
	return newTimerManager(hooks, tick)
}

func newTimerManager(hooks SessionHooks, tick time.Duration) *TimerManager {
	m := &TimerManager{
		runners: make(map[string]*TimerRunner),
		hooks:   hooks,
		tick:    tick,
	}

	go m.cleanupLoop()

	return m
}

func (m *TimerManager) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.cleanupIdleRunners()
	}
}

func (m *TimerManager) cleanupIdleRunners() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-1 * time.Hour)

	for userID, r := range m.runners {
		idle, lastActive := r.idleSince()
		if idle && lastActive.Before(cutoff) {
			r.stop()
			delete(m.runners, userID)
		}
	}
}

func (m *TimerManager) runner(userID string) *TimerRunner {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.runners[userID]
	if !ok {
		r = newTimerRunner(userID, m.hooks, m.tick)
		m.runners[userID] = r
	}
	return r
}

func (m *TimerManager) Start(userID string)  { m.runner(userID).Start() }
func (m *TimerManager) Pause(userID string)  { m.runner(userID).Pause() }
func (m *TimerManager) Cancel(userID string) { m.runner(userID).Cancel() }
func (m *TimerManager) Reset(userID string)  { m.runner(userID).Reset() }

func (m *TimerManager) SetSessionType(userID string, st domain.SessionType) error {
	return m.runner(userID).SetSessionType(st)
}

func (m *TimerManager) AdjustDuration(userID string, st domain.SessionType, deltaMinutes int) (int, error) {
	return m.runner(userID).AdjustDuration(st, deltaMinutes)
}

func (m *TimerManager) SetVisibility(userID string, foreground bool) {
	m.runner(userID).SetVisibility(foreground)
}

func (m *TimerManager) Snapshot(userID string) domain.TimerSnapshot {
	return m.runner(userID).Snapshot()
}

func (m *TimerManager) Events(userID string) <-chan domain.Event {
	return m.runner(userID).Events()
}
