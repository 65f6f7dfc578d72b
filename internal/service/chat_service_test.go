package service

import (
	"context"
	"errors"
	"testing"

	"pdf-insight-be/internal/dto"
	"pdf-insight-be/internal/entity"
	"pdf-insight-be/internal/repository/memory"
	"pdf-insight-be/pkg/chatsession"
	"pdf-insight-be/pkg/webhook"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatDocsFake struct {
	doc *dto.DocumentDetailResponse
}

func (f *chatDocsFake) EnsureProvisioned(ctx context.Context, userId uuid.UUID) error {
	return nil
}

func (f *chatDocsFake) Insert(ctx context.Context, userId uuid.UUID, pdfName string, analysis *webhook.AnalysisResult) (*entity.PdfDocument, error) {
	return nil, nil
}

func (f *chatDocsFake) List(ctx context.Context, userId uuid.UUID) ([]dto.DocumentListItem, error) {
	return nil, nil
}

func (f *chatDocsFake) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentDetailResponse, error) {
	return f.doc, nil
}

func (f *chatDocsFake) Delete(ctx context.Context, userId uuid.UUID, userEmail string, id uuid.UUID) error {
	return nil
}

type chatResponderFake struct {
	reply *webhook.ChatReply
	err   error
}

func (f *chatResponderFake) Ask(ctx context.Context, message, userEmail string) (*webhook.ChatReply, error) {
	return f.reply, f.err
}

func newChatFixture(responder chatsession.Responder) (IChatService, *memory.ChatSessionRepository) {
	sessions := memory.NewChatSessionRepository()
	docs := &chatDocsFake{doc: &dto.DocumentDetailResponse{
		Id:       uuid.New(),
		PdfName:  "report.pdf",
		Summary:  "A summary.",
		NumPages: 4,
		NumWords: 1200,
		Language: "en",
	}}
	svc := NewChatService(sessions, docs, responder, nil, nopLogger{})
	return svc, sessions
}

func TestStartSeedsSessionWithWelcomeMessage(t *testing.T) {
	svc, sessions := newChatFixture(&chatResponderFake{})

	res, err := svc.Start(context.Background(), uuid.New(), "user@example.com", uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", res.PdfName)
	assert.Equal(t, "A summary.", res.Analysis.Summary)
	require.Len(t, res.Messages, 1)
	assert.False(t, res.Messages[0].IsUser)

	_, found := sessions.Get(res.SessionId.String())
	assert.True(t, found)
}

func TestSendRoundTrip(t *testing.T) {
	svc, _ := newChatFixture(&chatResponderFake{reply: &webhook.ChatReply{Answer: "It is about Q3.", Parsed: true}})

	started, err := svc.Start(context.Background(), uuid.New(), "user@example.com", uuid.New())
	require.NoError(t, err)

	res, err := svc.Send(context.Background(), uuid.New(), "user@example.com", started.SessionId.String(), "what is it about?")
	require.NoError(t, err)

	assert.True(t, res.Sent.IsUser)
	assert.Equal(t, "what is it about?", res.Sent.Text)
	assert.Equal(t, "It is about Q3.", res.Reply.Text)
}

func TestSendToUnknownSession(t *testing.T) {
	svc, _ := newChatFixture(&chatResponderFake{})

	_, err := svc.Send(context.Background(), uuid.New(), "user@example.com", uuid.New().String(), "hello")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSendToAnotherUsersSessionLooksMissing(t *testing.T) {
	svc, _ := newChatFixture(&chatResponderFake{reply: &webhook.ChatReply{Answer: "x", Parsed: true}})

	started, err := svc.Start(context.Background(), uuid.New(), "owner@example.com", uuid.New())
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), uuid.New(), "intruder@example.com", started.SessionId.String(), "hello")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSendResponderFailureStillReturnsTranscriptEntry(t *testing.T) {
	svc, _ := newChatFixture(&chatResponderFake{err: errors.New("timeout")})

	started, err := svc.Start(context.Background(), uuid.New(), "user@example.com", uuid.New())
	require.NoError(t, err)

	res, err := svc.Send(context.Background(), uuid.New(), "user@example.com", started.SessionId.String(), "hello")
	require.NoError(t, err)
	assert.Contains(t, res.Reply.Text, "Sorry, I encountered an error")

	history, err := svc.History(context.Background(), "user@example.com", started.SessionId.String())
	require.NoError(t, err)
	assert.Len(t, history.Messages, 3)
}

func TestSendEmptyMessageRejected(t *testing.T) {
	svc, _ := newChatFixture(&chatResponderFake{})

	started, err := svc.Start(context.Background(), uuid.New(), "user@example.com", uuid.New())
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), uuid.New(), "user@example.com", started.SessionId.String(), "   ")
	assert.ErrorIs(t, err, chatsession.ErrEmptyMessage)
}

func TestCloseRemovesSession(t *testing.T) {
	svc, sessions := newChatFixture(&chatResponderFake{})

	started, err := svc.Start(context.Background(), uuid.New(), "user@example.com", uuid.New())
	require.NoError(t, err)

	require.NoError(t, svc.Close(context.Background(), "user@example.com", started.SessionId.String()))

	_, found := sessions.Get(started.SessionId.String())
	assert.False(t, found)
}
