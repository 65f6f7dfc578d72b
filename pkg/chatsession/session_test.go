package chatsession

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"pdf-insight-be/pkg/store"
	"pdf-insight-be/pkg/webhook"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResponder struct {
	mu      sync.Mutex
	calls   int
	lastMsg string
	reply   *webhook.ChatReply
	err     error
}

func (f *fakeResponder) Ask(ctx context.Context, message, userEmail string) (*webhook.ChatReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastMsg = message
	return f.reply, f.err
}

func (f *fakeResponder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestSession() *Session {
	return NewSession("user@example.com", uuid.New(), "report.pdf", store.PdfAnalysis{
		Summary:    "A quarterly report.",
		TotalPages: 12,
		TotalWords: 4800,
		Language:   "en",
	})
}

func TestNewSessionSeedsWelcomeMessage(t *testing.T) {
	s := newTestSession()

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].IsUser)
	assert.Contains(t, msgs[0].Text, `Welcome! I'm ready to answer questions about "report.pdf".`)
	assert.Contains(t, msgs[0].Text, "Here's a summary: A quarterly report.")
	assert.Contains(t, msgs[0].Text, "What would you like to know?")
	assert.Equal(t, store.StateReady, s.State())
}

func TestNewSessionWithoutSummarySkipsSummaryLine(t *testing.T) {
	s := NewSession("user@example.com", uuid.New(), "scan.pdf", store.PdfAnalysis{})

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.NotContains(t, msgs[0].Text, "Here's a summary:")
}

func TestSubmitAppendsTwoMessages(t *testing.T) {
	s := newTestSession()
	score := 0.92
	r := &fakeResponder{reply: &webhook.ChatReply{Answer: "It covers Q3 revenue.", RelevanceScore: &score, Parsed: true}}

	sent, reply, err := s.Submit(context.Background(), "What is this about?", r)
	require.NoError(t, err)

	assert.True(t, sent.IsUser)
	assert.Equal(t, "What is this about?", sent.Text)
	assert.False(t, reply.IsUser)
	assert.Equal(t, "It covers Q3 revenue.", reply.Text)
	require.NotNil(t, reply.RelevanceScore)
	assert.Equal(t, 0.92, *reply.RelevanceScore)

	msgs := s.Messages()
	assert.Len(t, msgs, 3)
	assert.Equal(t, store.StateReady, s.State())
}

func TestSubmitSendsTextAsTyped(t *testing.T) {
	s := newTestSession()
	r := &fakeResponder{reply: &webhook.ChatReply{Answer: "ok", Parsed: true}}

	sent, _, err := s.Submit(context.Background(), "  hello  ", r)
	require.NoError(t, err)

	// Whitespace gates only the empty check; the message itself is untouched.
	assert.Equal(t, "  hello  ", sent.Text)
	r.mu.Lock()
	assert.Equal(t, "  hello  ", r.lastMsg)
	r.mu.Unlock()
}

func TestSubmitEmptyMessageIsRejectedWithoutNetworkCall(t *testing.T) {
	s := newTestSession()
	r := &fakeResponder{}

	_, _, err := s.Submit(context.Background(), "   ", r)
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, 0, r.callCount())
	assert.Len(t, s.Messages(), 1)
	assert.Equal(t, store.StateReady, s.State())
}

func TestSubmitWithoutIdentityIsRejected(t *testing.T) {
	s := NewSession("", uuid.New(), "report.pdf", store.PdfAnalysis{})
	r := &fakeResponder{}

	_, _, err := s.Submit(context.Background(), "hello", r)
	assert.ErrorIs(t, err, ErrNoIdentity)
	assert.Equal(t, 0, r.callCount())
}

func TestSubmitWhileAwaitingResponseIsRejected(t *testing.T) {
	s := newTestSession()

	started := make(chan struct{})
	release := make(chan struct{})
	slow := responderFunc(func(ctx context.Context, message, userEmail string) (*webhook.ChatReply, error) {
		close(started)
		<-release
		return &webhook.ChatReply{Answer: "done", Parsed: true}, nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = s.Submit(context.Background(), "first", slow)
	}()

	<-started
	assert.Equal(t, store.StateAwaitingResponse, s.State())

	r := &fakeResponder{}
	_, _, err := s.Submit(context.Background(), "second", r)
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 0, r.callCount())

	close(release)
	<-done
	assert.Equal(t, store.StateReady, s.State())
}

type responderFunc func(ctx context.Context, message, userEmail string) (*webhook.ChatReply, error)

func (f responderFunc) Ask(ctx context.Context, message, userEmail string) (*webhook.ChatReply, error) {
	return f(ctx, message, userEmail)
}

func TestSubmitMalformedReplyUsesFallback(t *testing.T) {
	s := newTestSession()
	r := &fakeResponder{reply: &webhook.ChatReply{Parsed: false}}

	_, reply, err := s.Submit(context.Background(), "anything", r)
	require.NoError(t, err)
	assert.Equal(t, FallbackAnswer, reply.Text)
	assert.Nil(t, reply.RelevanceScore)
}

func TestSubmitFailureKeepsUserMessageAndRecovers(t *testing.T) {
	s := newTestSession()
	r := &fakeResponder{err: errors.New("connection refused")}

	sent, reply, err := s.Submit(context.Background(), "will fail", r)
	require.Error(t, err)

	assert.Equal(t, "will fail", sent.Text)
	assert.True(t, strings.HasPrefix(reply.Text, "Sorry, I encountered an error: "))
	assert.Contains(t, reply.Text, "connection refused")
	assert.Contains(t, reply.Text, "Please try again.")

	// The optimistic message stays, the error is a transcript entry, and the
	// session is immediately usable again.
	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.True(t, msgs[1].IsUser)
	assert.False(t, msgs[2].IsUser)
	assert.Equal(t, store.StateReady, s.State())

	ok := &fakeResponder{reply: &webhook.ChatReply{Answer: "recovered", Parsed: true}}
	_, reply2, err := s.Submit(context.Background(), "retry", ok)
	require.NoError(t, err)
	assert.Equal(t, "recovered", reply2.Text)
	assert.Len(t, s.Messages(), 5)
}

func TestMessagesReturnsCopy(t *testing.T) {
	s := newTestSession()

	msgs := s.Messages()
	msgs[0].Text = "mutated"

	assert.NotEqual(t, "mutated", s.Messages()[0].Text)
}
