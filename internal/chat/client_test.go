package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientStreamCollectsDeltas(t *testing.T) {
	var gotReq completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(frame("Hi ") + frame("there") + "data: [DONE]\n"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model")

	var out strings.Builder
	err := client.Stream(context.Background(), []Message{{Role: "user", Content: "hey"}}, nil, func(d string) {
		out.WriteString(d)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "Hi there" {
		t.Fatalf("assembled reply = %q, want %q", got, "Hi there")
	}

	if !gotReq.Stream {
		t.Fatalf("request did not ask for a stream")
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("system prompt not prepended: %+v", gotReq.Messages)
	}
	if gotReq.Model != "test-model" {
		t.Fatalf("model = %q, want test-model", gotReq.Model)
	}
}

func TestClientStreamStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"quota exceeded", http.StatusPaymentRequired, ErrQuotaExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "", "m")
			err := client.Stream(context.Background(), nil, nil, func(string) {
				t.Errorf("delta delivered on error status")
			})
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildSystemPromptIncludesContext(t *testing.T) {
	prompt := buildSystemPrompt(&Context{
		InSession:               true,
		SessionMinutesRemaining: 12,
		TodayStats:              &TodayStats{SessionsCompleted: 2, FocusMinutes: 50, Streak: 4},
		UserGoalMinutes:         120,
	})

	for _, want := range []string{"12 minutes", "2 sessions", "50", "Streak: 4 days", "120"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}

	bare := buildSystemPrompt(nil)
	if strings.Contains(bare, "CONTEXT") {
		t.Fatalf("nil context still produced a context block")
	}
}
