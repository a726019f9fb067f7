// Package chat talks to an OpenAI-style chat-completions gateway and
// relays its streamed tokens to the caller.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrRateLimited means the gateway refused the request with 429. The
	// user must resend; there is no automatic retry.
	ErrRateLimited = errors.New("chat provider rate limited")

	// ErrQuotaExceeded means the gateway's credits are depleted (402).
	ErrQuotaExceeded = errors.New("chat provider quota exceeded")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TodayStats is the progress summary shared with the companion so it can
// react to the user's day.
type TodayStats struct {
	SessionsCompleted int `json:"sessionsCompleted"`
	FocusMinutes      int `json:"focusMinutes"`
	Streak            int `json:"streak"`
}

// Context is the free-form situation object sent alongside the messages.
type Context struct {
	InSession               bool        `json:"inSession,omitempty"`
	SessionMinutesRemaining int         `json:"sessionMinutesRemaining,omitempty"`
	TodayStats              *TodayStats `json:"todayStats,omitempty"`
	UserGoalMinutes         int         `json:"userGoalMinutes,omitempty"`
}

type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
	model      string
}

func NewClient(url, apiKey, model string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		url:        url,
		apiKey:     apiKey,
		model:      model,
	}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// Stream sends the conversation and invokes onDelta for each text chunk as
// it arrives, returning once the stream's end marker is seen or the
// context is cancelled.
func (c *Client) Stream(ctx context.Context, messages []Message, chatCtx *Context, onDelta func(string)) error {
	body := completionRequest{
		Model:    c.model,
		Messages: append([]Message{{Role: "system", Content: buildSystemPrompt(chatCtx)}}, messages...),
		Stream:   true,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reach chat provider: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusPaymentRequired:
		return ErrQuotaExceeded
	default:
		return fmt.Errorf("chat provider returned status %d", resp.StatusCode)
	}

	var parser StreamParser
	buf := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			deltas, done := parser.Feed(buf[:n])
			for _, d := range deltas {
				onDelta(d)
			}
			if done {
				return nil
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read chat stream: %w", readErr)
		}
	}
}
