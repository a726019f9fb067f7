package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/focusbuddy/focusd/internal/chat"
	"github.com/focusbuddy/focusd/internal/config"
	"github.com/focusbuddy/focusd/internal/domain"
	httpapi "github.com/focusbuddy/focusd/internal/http"
	"github.com/focusbuddy/focusd/internal/progress"
	"github.com/focusbuddy/focusd/internal/runner"
	"github.com/focusbuddy/focusd/internal/storage"
)

func main() {
	configPath := flag.String("config", "focusd.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	repo, err := openRepository(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	svc := progress.NewService(repo)
	manager := runner.NewTimerManager(svc)
	chatClient := chat.NewClient(cfg.Chat.GatewayURL, cfg.Chat.APIKey, cfg.Chat.Model)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(extractUserMiddleware(cfg.Auth.DevUser))

	r.Get("/timer", getTimer(manager))
	r.Post("/timer/start", timerAction(manager, (*runner.TimerManager).Start))
	r.Post("/timer/pause", timerAction(manager, (*runner.TimerManager).Pause))
	r.Post("/timer/cancel", timerAction(manager, (*runner.TimerManager).Cancel))
	r.Post("/timer/reset", timerAction(manager, (*runner.TimerManager).Reset))
	r.Post("/timer/type", setSessionType(manager))
	r.Post("/timer/duration", adjustDuration(manager))
	r.Post("/timer/visibility", setVisibility(manager))
	r.Get("/timer/events", httpapi.StreamTimerEvents(manager, userID))

	r.Get("/sessions", listSessions(svc))
	r.Get("/progress/today", todayProgress(svc))
	r.Get("/progress/week", weeklyProgress(svc))
	r.Get("/achievements", listAchievements(svc))

	r.Get("/habits", listHabits(svc))
	r.Post("/habits", createHabit(svc))
	r.Delete("/habits/{id}", deleteHabit(svc))
	r.Post("/habits/{id}/complete", completeHabit(svc))

	r.Get("/goals", listGoals(repo))
	r.Post("/goals", createGoal(repo))
	r.Patch("/goals/{id}", updateGoal(repo))
	r.Post("/goals/{id}/complete", completeGoal(repo))
	r.Delete("/goals/{id}", deleteGoal(repo))

	r.Get("/profile", getProfile(repo))
	r.Put("/profile", putProfile(repo))

	r.Get("/quote", getQuote)

	r.Post("/chat", httpapi.StreamChat(chatClient, userID, chatContext(manager, svc, repo)))

	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal(err)
	}
}

func openRepository(cfg config.DatabaseConfig) (storage.Repository, error) {
	if cfg.Driver == "postgres" {
		return storage.NewPostgresRepository(cfg.DSN)
	}
	return storage.NewSQLiteRepository(cfg.DSN)
}

// chatContext gathers the situation the companion needs: the live timer,
// today's stats, and the user's daily goal. Lookups that fail just leave
// their part of the context blank; chat keeps working without them.
func chatContext(manager *runner.TimerManager, svc *progress.Service, repo storage.Repository) httpapi.ContextFunc {
	return func(user string) *chat.Context {
		ctx := &chat.Context{}

		snap := manager.Snapshot(user)
		if snap.State == domain.StateRunning && snap.SessionType == domain.SessionFocus {
			ctx.InSession = true
			ctx.SessionMinutesRemaining = snap.Remaining / 60
		}

		if today, err := svc.Today(user); err == nil {
			ctx.TodayStats = &chat.TodayStats{
				SessionsCompleted: today.SessionsCompleted,
				FocusMinutes:      today.TotalFocusMinutes,
				Streak:            today.StreakDays,
			}
		} else {
			log.Printf("chat context: today's stats for %s: %v", user, err)
		}

		if profile, err := repo.Profile(user); err == nil && profile != nil {
			ctx.UserGoalMinutes = profile.DailyFocusGoalMins
		}

		return ctx
	}
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
