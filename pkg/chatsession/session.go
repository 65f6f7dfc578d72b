package chatsession

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pdf-insight-be/pkg/store"
	"pdf-insight-be/pkg/webhook"

	"github.com/google/uuid"
)

// FallbackAnswer is used whenever the responder's payload does not match the
// expected shape. The conversation never drops a turn over a malformed body.
const FallbackAnswer = "I understand you'd like to know more about your PDF. Could you be more specific about what aspect you'd like me to elaborate on?"

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrNoIdentity   = errors.New("no user identity bound to session")
	ErrBusy         = errors.New("a response is still pending for this session")
)

// Responder is the external chat webhook seen from the session's side.
type Responder interface {
	Ask(ctx context.Context, message, userEmail string) (*webhook.ChatReply, error)
}

// Session owns the transcript of one document conversation. All transitions
// go through Submit; the mutex plus the state field guarantee at most one
// outstanding responder request per session.
type Session struct {
	ID         uuid.UUID
	UserEmail  string
	DocumentID uuid.UUID
	PdfName    string
	Analysis   store.PdfAnalysis

	mu       sync.Mutex
	state    string
	messages []store.Message
}

// NewSession binds analysis data and seeds the welcome message. The session
// is READY immediately; there is no separate priming step.
func NewSession(userEmail string, documentID uuid.UUID, pdfName string, analysis store.PdfAnalysis) *Session {
	s := &Session{
		ID:         uuid.New(),
		UserEmail:  userEmail,
		DocumentID: documentID,
		PdfName:    pdfName,
		Analysis:   analysis,
		state:      store.StateReady,
	}
	s.messages = append(s.messages, store.Message{
		ID:        uuid.New().String(),
		Text:      welcomeText(pdfName, analysis.Summary),
		IsUser:    false,
		Timestamp: time.Now(),
	})
	return s
}

func welcomeText(pdfName, summary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome! I'm ready to answer questions about %q. ", pdfName)
	if summary != "" {
		fmt.Fprintf(&b, "Here's a summary: %s ", summary)
	}
	b.WriteString("What would you like to know?")
	return b.String()
}

func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns a snapshot of the transcript in append order.
func (s *Session) Messages() []store.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Submit runs one exchange: optimistic append of the user message, a single
// responder round trip, then the bot reply (parsed, fallback, or an error
// transcript entry). The user message is never rolled back, even when the
// round trip fails.
//
// Rejected submissions (empty text, missing identity, request already in
// flight) change nothing and issue no network call.
func (s *Session) Submit(ctx context.Context, text string, responder Responder) (sent, reply store.Message, err error) {
	s.mu.Lock()
	switch {
	case strings.TrimSpace(text) == "":
		s.mu.Unlock()
		return store.Message{}, store.Message{}, ErrEmptyMessage
	case s.UserEmail == "":
		s.mu.Unlock()
		return store.Message{}, store.Message{}, ErrNoIdentity
	case s.state != store.StateReady:
		s.mu.Unlock()
		return store.Message{}, store.Message{}, ErrBusy
	}

	// Whitespace only gates the empty check; what the user typed is what
	// appears in the transcript and what the responder receives.
	sent = store.Message{
		ID:        uuid.New().String(),
		Text:      text,
		IsUser:    true,
		Timestamp: time.Now(),
	}
	s.messages = append(s.messages, sent)
	s.state = store.StateAwaitingResponse
	s.mu.Unlock()

	answer, askErr := responder.Ask(ctx, text, s.UserEmail)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = store.StateReady

	if askErr != nil {
		// The failure becomes a visible transcript entry, not just a toast.
		reply = store.Message{
			ID:        uuid.New().String(),
			Text:      fmt.Sprintf("Sorry, I encountered an error: %s. Please try again.", askErr.Error()),
			IsUser:    false,
			Timestamp: time.Now(),
		}
		s.messages = append(s.messages, reply)
		return sent, reply, askErr
	}

	replyText := FallbackAnswer
	var score *float64
	if answer != nil && answer.Parsed && answer.Answer != "" {
		replyText = answer.Answer
		score = answer.RelevanceScore
	}

	reply = store.Message{
		ID:             uuid.New().String(),
		Text:           replyText,
		IsUser:         false,
		Timestamp:      time.Now(),
		RelevanceScore: score,
	}
	s.messages = append(s.messages, reply)
	return sent, reply, nil
}
