package domain

import "testing"

func TestTimerFullFocusSession(t *testing.T) {
	tm := NewTimer()

	started := tm.Start()
	if started == nil || started.Kind != EventStarted {
		t.Fatalf("expected started event, got %+v", started)
	}

	var completions int
	for i := 0; i < 1500; i++ {
		ev := tm.Tick()
		if ev == nil {
			t.Fatalf("tick %d returned no event", i)
		}
		if ev.Kind == EventCompleted {
			completions++
			if ev.Minutes != 25 {
				t.Fatalf("completed with %d minutes, want 25", ev.Minutes)
			}
		}
	}

	if completions != 1 {
		t.Fatalf("got %d completion events, want exactly 1", completions)
	}
	if tm.State() != StateCompleted {
		t.Fatalf("state = %s, want completed", tm.State())
	}
	if tm.Remaining() != 0 {
		t.Fatalf("remaining = %d, want 0", tm.Remaining())
	}

	// A tick after completion must be a no-op.
	if ev := tm.Tick(); ev != nil {
		t.Fatalf("tick after completion emitted %+v", ev)
	}
}

func TestTimerPauseResume(t *testing.T) {
	tm := NewTimer()
	tm.Start()

	for i := 0; i < 600; i++ {
		tm.Tick()
	}

	if !tm.Pause() {
		t.Fatal("pause should succeed while running")
	}
	remaining := tm.Remaining()
	if remaining != 900 {
		t.Fatalf("remaining after 600 ticks = %d, want 900", remaining)
	}

	// Ticks while paused are ignored.
	if ev := tm.Tick(); ev != nil {
		t.Fatalf("tick while paused emitted %+v", ev)
	}

	if ev := tm.Start(); ev != nil {
		t.Fatalf("resume re-emitted started event %+v", ev)
	}
	if tm.State() != StateRunning {
		t.Fatalf("state = %s, want running", tm.State())
	}
	if tm.Remaining() != remaining {
		t.Fatalf("remaining = %d, want %d", tm.Remaining(), remaining)
	}
}

func TestTimerCancelDiscardsProgress(t *testing.T) {
	tm := NewTimer()
	tm.Start()

	for i := 0; i < 600; i++ {
		tm.Tick()
	}
	if tm.Remaining() != 900 {
		t.Fatalf("remaining = %d, want 900", tm.Remaining())
	}

	ev := tm.Cancel()
	if ev == nil || ev.Kind != EventCancelled {
		t.Fatalf("expected cancelled event, got %+v", ev)
	}
	if tm.State() != StateIdle {
		t.Fatalf("state = %s, want idle", tm.State())
	}
	if tm.Remaining() != 1500 {
		t.Fatalf("remaining = %d, want 1500", tm.Remaining())
	}

	// Cancel when not running is a guarded no-op, not an error.
	if ev := tm.Cancel(); ev != nil {
		t.Fatalf("second cancel emitted %+v", ev)
	}
}

func TestTimerGuardedNoOps(t *testing.T) {
	tm := NewTimer()

	if tm.Pause() {
		t.Fatal("pause from idle should be a no-op")
	}
	if ev := tm.Cancel(); ev != nil {
		t.Fatalf("cancel from idle emitted %+v", ev)
	}
	if tm.Reset() {
		t.Fatal("reset from idle should be a no-op")
	}

	tm.Start()
	// Start while already running is a no-op and must not re-emit.
	if ev := tm.Start(); ev != nil {
		t.Fatalf("start while running emitted %+v", ev)
	}
}

func TestTimerResetOnlyFromCompleted(t *testing.T) {
	tm := NewTimer()
	tm.Start()
	for tm.State() == StateRunning {
		tm.Tick()
	}
	if tm.State() != StateCompleted {
		t.Fatalf("state = %s, want completed", tm.State())
	}

	if !tm.Reset() {
		t.Fatal("reset from completed should succeed")
	}
	if tm.State() != StateIdle || tm.Remaining() != 1500 {
		t.Fatalf("after reset: state=%s remaining=%d", tm.State(), tm.Remaining())
	}
}

func TestTimerSessionTypeSwitch(t *testing.T) {
	tm := NewTimer()

	if err := tm.SetSessionType(SessionShortBreak); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tm.Remaining() != DefaultShortBreakMinutes*60 {
		t.Fatalf("remaining = %d, want %d", tm.Remaining(), DefaultShortBreakMinutes*60)
	}

	tm.Start()
	if err := tm.SetSessionType(SessionFocus); err != ErrTimerRunning {
		t.Fatalf("expected ErrTimerRunning, got %v", err)
	}

	tm.Pause()
	if err := tm.SetSessionType(SessionLongBreak); err != nil {
		t.Fatalf("switch while paused should succeed: %v", err)
	}
	if tm.State() != StateIdle {
		t.Fatalf("state = %s, want idle after switch", tm.State())
	}
	if tm.Remaining() != DefaultLongBreakMinutes*60 {
		t.Fatalf("remaining = %d, want %d", tm.Remaining(), DefaultLongBreakMinutes*60)
	}

	if err := tm.SetSessionType("nap"); err == nil {
		t.Fatal("unknown session type should be rejected")
	}
}

func TestTimerAdjustDurationClamps(t *testing.T) {
	tm := NewTimer()

	// Nine +5 adjustments from 25 would reach 70; keep going and the value
	// must pin at the 120 minute ceiling.
	var minutes int
	var err error
	for i := 0; i < 30; i++ {
		minutes, err = tm.AdjustDuration(SessionFocus, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if minutes > MaxDurationMinutes {
			t.Fatalf("duration %d exceeds ceiling", minutes)
		}
	}
	if minutes != MaxDurationMinutes {
		t.Fatalf("duration = %d, want %d", minutes, MaxDurationMinutes)
	}
	if tm.Remaining() != MaxDurationMinutes*60 {
		t.Fatalf("remaining not resynced: %d", tm.Remaining())
	}

	minutes, err = tm.AdjustDuration(SessionFocus, -1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != MinDurationMinutes {
		t.Fatalf("duration = %d, want %d", minutes, MinDurationMinutes)
	}
}

func TestTimerAdjustDurationWhileRunning(t *testing.T) {
	tm := NewTimer()
	tm.Start()
	tm.Tick()
	before := tm.Remaining()

	if _, err := tm.AdjustDuration(SessionFocus, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The running countdown keeps its remaining time; only the configured
	// total changes.
	if tm.Remaining() != before {
		t.Fatalf("remaining changed while running: %d -> %d", before, tm.Remaining())
	}

	// Adjusting a non-selected type never touches remaining.
	if _, err := tm.AdjustDuration(SessionShortBreak, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tm.Remaining() != before {
		t.Fatalf("remaining changed by unrelated adjustment")
	}
}

func TestTimerBreakSessionCompletes(t *testing.T) {
	tm := NewTimer()
	if err := tm.SetSessionType(SessionShortBreak); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tm.Start()

	var done *Event
	for i := 0; i < DefaultShortBreakMinutes*60; i++ {
		if ev := tm.Tick(); ev != nil && ev.Kind == EventCompleted {
			done = ev
		}
	}
	if done == nil {
		t.Fatal("break session never completed")
	}
	if done.SessionType != SessionShortBreak || done.Minutes != DefaultShortBreakMinutes {
		t.Fatalf("completion = %+v", done)
	}
}
