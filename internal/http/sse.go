package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/focusbuddy/focusd/internal/runner"
)

// UserFunc extracts the authenticated identity from a request. An empty
// return means the request carries no identity.
type UserFunc func(*http.Request) string

// StreamTimerEvents pushes a user's timer lifecycle events over SSE until
// the client disconnects.
func StreamTimerEvents(manager *runner.TimerManager, user UserFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := user(r)
		if userID == "" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		events := manager.Events(userID)

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}

				data, err := json.Marshal(ev)
				if err != nil {
					log.Printf("sse: encode timer event: %v", err)
					continue
				}
				w.Write([]byte("data: "))
				w.Write(data)
				w.Write([]byte("\n\n"))

				flusher.Flush()

			case <-r.Context().Done():
				return
			}
		}
	}
}
