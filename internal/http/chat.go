package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/focusbuddy/focusd/internal/chat"
)

// ContextFunc assembles the situation object sent to the chat provider for
// one user: session remaining time, today's stats, daily goal.
type ContextFunc func(userID string) *chat.Context

type chatRequest struct {
	Messages []chat.Message `json:"messages"`
}

type chatDelta struct {
	Delta string `json:"delta"`
}

// StreamChat relays the provider's token stream to the browser as SSE
// frames of the form `data: {"delta":...}`, closed by a literal [DONE].
// Rate-limit and quota responses surface as their own status codes so the
// client can show the right message; neither is retried.
func StreamChat(client *chat.Client, user UserFunc, chatCtx ContextFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := user(r)
		if userID == "" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if len(req.Messages) == 0 {
			http.Error(w, "messages must not be empty", http.StatusBadRequest)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		// SSE headers are deferred until the first token so provider
		// failures can still carry their own status code.
		streaming := false
		begin := func() {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			streaming = true
		}

		err := client.Stream(r.Context(), req.Messages, chatCtx(userID), func(delta string) {
			if !streaming {
				begin()
			}
			writeFrame(w, chatDelta{Delta: delta})
			flusher.Flush()
		})

		if err != nil && !streaming {
			switch {
			case errors.Is(err, chat.ErrRateLimited):
				http.Error(w, "Too many messages. Take a breath and try again in a moment.", http.StatusTooManyRequests)
			case errors.Is(err, chat.ErrQuotaExceeded):
				http.Error(w, "AI credits are depleted. Please add more credits to continue.", http.StatusPaymentRequired)
			default:
				log.Printf("chat: stream for %s: %v", userID, err)
				http.Error(w, "AI service temporarily unavailable", http.StatusBadGateway)
			}
			return
		}
		if err != nil {
			// Stream broke mid-flight; all we can do is end it.
			log.Printf("chat: stream interrupted for %s: %v", userID, err)
		}

		if !streaming {
			begin()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}
}

func writeFrame(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("chat: encode frame: %v", err)
		return
	}
	w.Write([]byte("data: "))
	w.Write(data)
	w.Write([]byte("\n\n"))
}
