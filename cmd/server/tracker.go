package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/focusbuddy/focusd/internal/domain"
	"github.com/focusbuddy/focusd/internal/progress"
	"github.com/focusbuddy/focusd/internal/quotes"
	"github.com/focusbuddy/focusd/internal/storage"
)

const recentSessionLimit = 50

func listSessions(svc *progress.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := svc.RecentSessions(userID(r), recentSessionLimit)
		if err != nil {
			respondError(w, "failed to load sessions", http.StatusInternalServerError)
			return
		}
		respondJSON(w, sessions, http.StatusOK)
	}
}

func todayProgress(svc *progress.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today, err := svc.Today(userID(r))
		if err != nil {
			respondError(w, "failed to load progress", http.StatusInternalServerError)
			return
		}
		respondJSON(w, today, http.StatusOK)
	}
}

func weeklyProgress(svc *progress.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		week, err := svc.Weekly(userID(r))
		if err != nil {
			respondError(w, "failed to load progress", http.StatusInternalServerError)
			return
		}
		respondJSON(w, week, http.StatusOK)
	}
}

func listAchievements(svc *progress.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		badges, err := svc.Achievements(userID(r))
		if err != nil {
			respondError(w, "failed to load achievements", http.StatusInternalServerError)
			return
		}
		respondJSON(w, badges, http.StatusOK)
	}
}

func listHabits(svc *progress.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		habits, err := svc.Habits(userID(r))
		if err != nil {
			respondError(w, "failed to load habits", http.StatusInternalServerError)
			return
		}
		respondJSON(w, habits, http.StatusOK)
	}
}

func createHabit(svc *progress.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Icon        string `json:"icon"`
			Frequency   string `json:"frequency"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		habit, err := svc.CreateHabit(userID(r), req.Title, req.Description, req.Icon, req.Frequency)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				respondError(w, err.Error(), http.StatusBadRequest)
				return
			}
			respondError(w, "failed to create habit", http.StatusInternalServerError)
			return
		}
		respondJSON(w, habit, http.StatusCreated)
	}
}

func deleteHabit(svc *progress.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.DeleteHabit(userID(r), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respondError(w, "habit not found", http.StatusNotFound)
				return
			}
			respondError(w, "failed to delete habit", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func completeHabit(svc *progress.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Date string `json:"date"`
		}
		// An empty body means "today".
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			req.Date = ""
		}

		err := svc.CompleteHabit(userID(r), chi.URLParam(r, "id"), req.Date)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				respondError(w, err.Error(), http.StatusBadRequest)
				return
			}
			respondError(w, "failed to record completion", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type goalRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	Progress    *int    `json:"progress"`
	TargetDate  *string `json:"targetDate"`
}

func listGoals(repo storage.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		goals, err := repo.ListGoals(userID(r))
		if err != nil {
			respondError(w, "failed to load goals", http.StatusInternalServerError)
			return
		}
		respondJSON(w, goals, http.StatusOK)
	}
}

func createGoal(repo storage.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req goalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Title == nil || *req.Title == "" {
			respondError(w, "goal title is required", http.StatusBadRequest)
			return
		}

		now := time.Now()
		rec := &storage.GoalRecord{
			ID:        uuid.New().String(),
			UserID:    userID(r),
			Title:     *req.Title,
			Category:  "other",
			Priority:  "medium",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := applyGoalRequest(rec, &req); err != nil {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := repo.InsertGoal(rec); err != nil {
			respondError(w, "failed to create goal", http.StatusInternalServerError)
			return
		}
		respondJSON(w, rec, http.StatusCreated)
	}
}

func updateGoal(repo storage.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req goalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		rec, err := repo.GoalByID(chi.URLParam(r, "id"), userID(r))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respondError(w, "goal not found", http.StatusNotFound)
				return
			}
			respondError(w, "failed to load goal", http.StatusInternalServerError)
			return
		}

		if err := applyGoalRequest(rec, &req); err != nil {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec.UpdatedAt = time.Now()

		if err := repo.UpdateGoal(rec); err != nil {
			respondError(w, "failed to update goal", http.StatusInternalServerError)
			return
		}
		respondJSON(w, rec, http.StatusOK)
	}
}

func completeGoal(repo storage.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := repo.GoalByID(chi.URLParam(r, "id"), userID(r))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respondError(w, "goal not found", http.StatusNotFound)
				return
			}
			respondError(w, "failed to load goal", http.StatusInternalServerError)
			return
		}

		now := time.Now()
		rec.Completed = true
		rec.CompletedAt = &now
		rec.Progress = 100
		rec.UpdatedAt = now

		if err := repo.UpdateGoal(rec); err != nil {
			respondError(w, "failed to update goal", http.StatusInternalServerError)
			return
		}
		respondJSON(w, rec, http.StatusOK)
	}
}

func deleteGoal(repo storage.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := repo.DeleteGoal(chi.URLParam(r, "id"), userID(r))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respondError(w, "goal not found", http.StatusNotFound)
				return
			}
			respondError(w, "failed to delete goal", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func applyGoalRequest(rec *storage.GoalRecord, req *goalRequest) error {
	if req.Title != nil {
		rec.Title = *req.Title
	}
	if req.Description != nil {
		rec.Description = *req.Description
	}
	if req.Category != nil {
		rec.Category = *req.Category
	}
	if req.Priority != nil {
		rec.Priority = *req.Priority
	}
	if req.Progress != nil {
		p := *req.Progress
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		rec.Progress = p
	}
	if req.TargetDate != nil {
		if *req.TargetDate != "" {
			if _, err := domain.ParseDay(*req.TargetDate); err != nil {
				return err
			}
		}
		rec.TargetDate = *req.TargetDate
	}
	return nil
}

func getProfile(repo storage.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := repo.Profile(userID(r))
		if err != nil {
			respondError(w, "failed to load profile", http.StatusInternalServerError)
			return
		}
		if profile == nil {
			respondError(w, "profile not found", http.StatusNotFound)
			return
		}
		respondJSON(w, profile, http.StatusOK)
	}
}

func putProfile(repo storage.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			DisplayName         string   `json:"displayName"`
			DailyFocusGoalMins  int      `json:"dailyFocusGoalMinutes"`
			DistractingApps     []string `json:"distractingApps"`
			OnboardingCompleted bool     `json:"onboardingCompleted"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.DailyFocusGoalMins < 0 {
			respondError(w, "daily focus goal must not be negative", http.StatusBadRequest)
			return
		}
		if req.DistractingApps == nil {
			req.DistractingApps = []string{}
		}

		user := userID(r)
		now := time.Now()
		createdAt := now
		if existing, err := repo.Profile(user); err == nil && existing != nil {
			createdAt = existing.CreatedAt
		}

		rec := &storage.ProfileRecord{
			UserID:              user,
			DisplayName:         req.DisplayName,
			DailyFocusGoalMins:  req.DailyFocusGoalMins,
			DistractingApps:     req.DistractingApps,
			OnboardingCompleted: req.OnboardingCompleted,
			CreatedAt:           createdAt,
			UpdatedAt:           now,
		}
		if err := repo.UpsertProfile(rec); err != nil {
			respondError(w, "failed to save profile", http.StatusInternalServerError)
			return
		}
		respondJSON(w, rec, http.StatusOK)
	}
}

func getQuote(w http.ResponseWriter, r *http.Request) {
	prev := -1
	if s := r.URL.Query().Get("prev"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			prev = n
		}
	}

	quote, idx := quotes.Next(prev)
	respondJSON(w, struct {
		quotes.Quote
		Index int `json:"index"`
	}{Quote: quote, Index: idx}, http.StatusOK)
}
