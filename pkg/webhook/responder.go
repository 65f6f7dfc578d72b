package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pdf-insight-be/internal/pkg/apperrors"
)

// ChatReply carries one answer from the chat webhook. Parsed reports whether
// the payload matched the expected shape; callers substitute their own
// fallback text when it did not.
type ChatReply struct {
	Answer         string
	RelevanceScore *float64
	Parsed         bool
}

type chatEnvelope struct {
	Output struct {
		Answer         string   `json:"answer"`
		RelevanceScore *float64 `json:"relevanceScore"`
	} `json:"output"`
}

// ChatResponder posts chat turns to the chat webhook.
type ChatResponder struct {
	url    string
	client *http.Client
}

func NewChatResponder(url string) *ChatResponder {
	return &ChatResponder{
		url: url,
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

func (c *ChatResponder) Ask(ctx context.Context, message, userEmail string) (*ChatReply, error) {
	payload, err := json.Marshal(map[string]string{
		"message":   message,
		"userEmail": userEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &apperrors.ChatRequestError{Message: "chat service unreachable", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.ChatRequestError{StatusCode: resp.StatusCode, Message: "failed to read chat response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apperrors.ChatRequestError{
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage("chat service", raw, resp.StatusCode),
		}
	}

	var envelope []chatEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope) == 0 || envelope[0].Output.Answer == "" {
		// A malformed body is not a failed exchange, just an unusable one.
		return &ChatReply{Parsed: false}, nil
	}

	out := envelope[0].Output
	return &ChatReply{
		Answer:         out.Answer,
		RelevanceScore: out.RelevanceScore,
		Parsed:         true,
	}, nil
}
