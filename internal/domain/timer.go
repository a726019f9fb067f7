package domain

import "fmt"

type SessionType string

const (
	SessionFocus      SessionType = "focus"
	SessionShortBreak SessionType = "short_break"
	SessionLongBreak  SessionType = "long_break"
)

// ValidSessionType reports whether st names one of the three session kinds.
func ValidSessionType(st SessionType) bool {
	switch st {
	case SessionFocus, SessionShortBreak, SessionLongBreak:
		return true
	}
	return false
}

type TimerState string

const (
	StateIdle      TimerState = "idle"
	StateRunning   TimerState = "running"
	StatePaused    TimerState = "paused"
	StateCompleted TimerState = "completed"
)

const (
	DefaultFocusMinutes      = 25
	DefaultShortBreakMinutes = 5
	DefaultLongBreakMinutes  = 15

	MinDurationMinutes = 1
	MaxDurationMinutes = 120
)

type EventKind string

const (
	EventStarted   EventKind = "started"
	EventTick      EventKind = "tick"
	EventCompleted EventKind = "completed"
	EventCancelled EventKind = "cancelled"
)

// Event describes a timer lifecycle transition. Minutes is only set on
// completion and carries the nominal session length, not wall-clock time:
// a starved tick source delivers fewer ticks but the session still reports
// its full configured duration once the count reaches zero.
type Event struct {
	Kind        EventKind   `json:"kind"`
	SessionType SessionType `json:"sessionType"`
	Remaining   int         `json:"remainingSeconds"`
	Minutes     int         `json:"minutes,omitempty"`
}

// Timer is the countdown state machine for focus and break sessions. It is
// pure with respect to its inputs: ticks arrive as calls, side effects are
// returned as events, and the caller owns delivery order. Not safe for
// concurrent use; the owning runner serializes access.
type Timer struct {
	sessionType SessionType
	durations   map[SessionType]int // minutes
	remaining   int                 // seconds
	state       TimerState
}

func NewTimer() *Timer {
	t := &Timer{
		sessionType: SessionFocus,
		durations: map[SessionType]int{
			SessionFocus:      DefaultFocusMinutes,
			SessionShortBreak: DefaultShortBreakMinutes,
			SessionLongBreak:  DefaultLongBreakMinutes,
		},
		state: StateIdle,
	}
	t.remaining = t.total()
	return t
}

func (t *Timer) total() int {
	return t.durations[t.sessionType] * 60
}

func (t *Timer) SessionType() SessionType { return t.sessionType }
func (t *Timer) State() TimerState        { return t.state }
func (t *Timer) Remaining() int           { return t.remaining }

// Start begins a fresh session from Idle or resumes a paused one. A fresh
// start returns a started event; resuming does not, since the session
// record already exists. Starting from any other state is a no-op.
func (t *Timer) Start() *Event {
	switch t.state {
	case StateIdle:
		t.state = StateRunning
		return &Event{Kind: EventStarted, SessionType: t.sessionType, Remaining: t.remaining}
	case StatePaused:
		t.state = StateRunning
	}
	return nil
}

// Tick consumes one virtual second. The final tick moves the machine to
// Completed and reports the nominal elapsed minutes; ticks outside Running
// are no-ops, so a late tick after completion cannot fire twice.
func (t *Timer) Tick() *Event {
	if t.state != StateRunning {
		return nil
	}

	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.state = StateCompleted
		return &Event{
			Kind:        EventCompleted,
			SessionType: t.sessionType,
			Minutes:     t.total() / 60,
		}
	}
	return &Event{Kind: EventTick, SessionType: t.sessionType, Remaining: t.remaining}
}

// Pause stores the current remaining time. No-op unless Running.
func (t *Timer) Pause() bool {
	if t.state != StateRunning {
		return false
	}
	t.state = StatePaused
	return true
}

// Cancel abandons a running session, discarding partial progress. No
// completion is ever reported for a cancelled session.
func (t *Timer) Cancel() *Event {
	if t.state != StateRunning {
		return nil
	}
	t.state = StateIdle
	t.remaining = t.total()
	return &Event{Kind: EventCancelled, SessionType: t.sessionType, Remaining: t.remaining}
}

// Reset returns a completed timer to Idle. No-op from any other state.
func (t *Timer) Reset() bool {
	if t.state != StateCompleted {
		return false
	}
	t.state = StateIdle
	t.remaining = t.total()
	return true
}

// ErrTimerRunning rejects session-type switches while a countdown is live.
var ErrTimerRunning = fmt.Errorf("timer is running")

// SetSessionType switches the selected session kind, resetting progress for
// the new kind. Disallowed while Running; the user must pause or cancel
// first.
func (t *Timer) SetSessionType(st SessionType) error {
	if !ValidSessionType(st) {
		return fmt.Errorf("%w: unknown session type %q", ErrInvalidInput, st)
	}
	if t.state == StateRunning {
		return ErrTimerRunning
	}
	t.sessionType = st
	t.state = StateIdle
	t.remaining = t.total()
	return nil
}

// AdjustDuration shifts the configured duration for st by deltaMinutes,
// clamped to [MinDurationMinutes, MaxDurationMinutes]. When st is the
// selected, non-running type the remaining time resyncs to the new total.
// Returns the duration after clamping.
func (t *Timer) AdjustDuration(st SessionType, deltaMinutes int) (int, error) {
	if !ValidSessionType(st) {
		return 0, fmt.Errorf("%w: unknown session type %q", ErrInvalidInput, st)
	}

	minutes := t.durations[st] + deltaMinutes
	if minutes < MinDurationMinutes {
		minutes = MinDurationMinutes
	}
	if minutes > MaxDurationMinutes {
		minutes = MaxDurationMinutes
	}
	t.durations[st] = minutes

	if st == t.sessionType && t.state != StateRunning {
		t.remaining = t.total()
	}
	return minutes, nil
}

// TimerSnapshot is the externally visible timer state.
type TimerSnapshot struct {
	SessionType SessionType         `json:"sessionType"`
	State       TimerState          `json:"state"`
	Remaining   int                 `json:"remainingSeconds"`
	Total       int                 `json:"totalSeconds"`
	Durations   map[SessionType]int `json:"durationsMinutes"`
}

func (t *Timer) Snapshot() TimerSnapshot {
	durations := make(map[SessionType]int, len(t.durations))
	for st, m := range t.durations {
		durations[st] = m
	}
	return TimerSnapshot{
		SessionType: t.sessionType,
		State:       t.state,
		Remaining:   t.remaining,
		Total:       t.total(),
		Durations:   durations,
	}
}
