package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/focusbuddy/focusd/internal/domain"
	"github.com/focusbuddy/focusd/internal/runner"
)

func getTimer(m *runner.TimerManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, m.Snapshot(userID(r)), http.StatusOK)
	}
}

// timerAction wraps the guarded lifecycle verbs. Redundant calls are
// no-ops inside the state machine, so every action just answers with the
// resulting snapshot.
func timerAction(m *runner.TimerManager, action func(*runner.TimerManager, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userID(r)
		action(m, user)
		respondJSON(w, m.Snapshot(user), http.StatusOK)
	}
}

func setSessionType(m *runner.TimerManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionType domain.SessionType `json:"sessionType"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		user := userID(r)
		if err := m.SetSessionType(user, req.SessionType); err != nil {
			switch {
			case errors.Is(err, domain.ErrTimerRunning):
				respondError(w, "pause or cancel the running session first", http.StatusConflict)
			case errors.Is(err, domain.ErrInvalidInput):
				respondError(w, err.Error(), http.StatusBadRequest)
			default:
				respondError(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}

		respondJSON(w, m.Snapshot(user), http.StatusOK)
	}
}

func adjustDuration(m *runner.TimerManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionType  domain.SessionType `json:"sessionType"`
			DeltaMinutes int                `json:"deltaMinutes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		user := userID(r)
		// Out-of-range adjustments clamp rather than fail; only an unknown
		// session type is an error.
		if _, err := m.AdjustDuration(user, req.SessionType, req.DeltaMinutes); err != nil {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}

		respondJSON(w, m.Snapshot(user), http.StatusOK)
	}
}

func setVisibility(m *runner.TimerManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Foreground bool `json:"foreground"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		m.SetVisibility(userID(r), req.Foreground)
		w.WriteHeader(http.StatusNoContent)
	}
}
