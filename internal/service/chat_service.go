package service

import (
	"context"
	"errors"

	"pdf-insight-be/internal/dto"
	"pdf-insight-be/internal/pkg/logger"
	"pdf-insight-be/internal/repository/memory"
	"pdf-insight-be/pkg/chatsession"
	"pdf-insight-be/pkg/store"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("chat session not found")

type IChatService interface {
	Start(ctx context.Context, userId uuid.UUID, userEmail string, documentId uuid.UUID) (*dto.StartChatResponse, error)
	Send(ctx context.Context, userId uuid.UUID, userEmail string, sessionId string, message string) (*dto.SendChatResponse, error)
	History(ctx context.Context, userEmail string, sessionId string) (*dto.ChatHistoryResponse, error)
	Close(ctx context.Context, userEmail string, sessionId string) error
}

type chatService struct {
	sessions        *memory.ChatSessionRepository
	documentService IDocumentService
	responder       chatsession.Responder
	notification    *NotificationService
	log             logger.ILogger
}

func NewChatService(
	sessions *memory.ChatSessionRepository,
	documentService IDocumentService,
	responder chatsession.Responder,
	notification *NotificationService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		sessions:        sessions,
		documentService: documentService,
		responder:       responder,
		notification:    notification,
		log:             log,
	}
}

// Start opens a fresh session seeded from the stored analysis of one
// document. Every Start creates a new session; old ones age out of the store.
func (s *chatService) Start(ctx context.Context, userId uuid.UUID, userEmail string, documentId uuid.UUID) (*dto.StartChatResponse, error) {
	doc, err := s.documentService.Show(ctx, userId, documentId)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("document not found")
	}

	session := chatsession.NewSession(userEmail, documentId, doc.PdfName, store.PdfAnalysis{
		Summary:    doc.Summary,
		TotalPages: doc.NumPages,
		TotalWords: doc.NumWords,
		Language:   doc.Language,
	})
	s.sessions.Save(session)

	return &dto.StartChatResponse{
		SessionId: session.ID,
		PdfName:   session.PdfName,
		Analysis: dto.PdfAnalysisData{
			Summary:    session.Analysis.Summary,
			TotalPages: session.Analysis.TotalPages,
			TotalWords: session.Analysis.TotalWords,
			Language:   session.Analysis.Language,
		},
		Messages: toMessageDTOs(session.Messages()),
	}, nil
}

// Send runs one exchange through the session state machine. A responder
// failure is reported through the transcript and a toast, not as an HTTP
// error; the session is usable again immediately.
func (s *chatService) Send(ctx context.Context, userId uuid.UUID, userEmail string, sessionId string, message string) (*dto.SendChatResponse, error) {
	session, err := s.ownedSession(userEmail, sessionId)
	if err != nil {
		return nil, err
	}

	sent, reply, submitErr := session.Submit(ctx, message, s.responder)
	if submitErr != nil {
		switch {
		case errors.Is(submitErr, chatsession.ErrEmptyMessage),
			errors.Is(submitErr, chatsession.ErrNoIdentity),
			errors.Is(submitErr, chatsession.ErrBusy):
			return nil, submitErr
		}

		// Failed exchange: the error already landed in the transcript.
		s.log.Warn("chat", "responder request failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      submitErr.Error(),
		})
		if s.notification != nil {
			_ = s.notification.Notify(ctx, userId, "CHAT_ERROR",
				"Chat request failed",
				"The assistant could not answer your last question. Please try again.",
				map[string]interface{}{"session_id": sessionId},
			)
		}
	}

	return &dto.SendChatResponse{
		SessionId: session.ID,
		Sent:      toMessageDTO(sent),
		Reply:     toMessageDTO(reply),
	}, nil
}

func (s *chatService) History(ctx context.Context, userEmail string, sessionId string) (*dto.ChatHistoryResponse, error) {
	session, err := s.ownedSession(userEmail, sessionId)
	if err != nil {
		return nil, err
	}

	return &dto.ChatHistoryResponse{
		SessionId: session.ID,
		Messages:  toMessageDTOs(session.Messages()),
	}, nil
}

func (s *chatService) Close(ctx context.Context, userEmail string, sessionId string) error {
	if _, err := s.ownedSession(userEmail, sessionId); err != nil {
		return err
	}
	s.sessions.Delete(sessionId)
	return nil
}

func (s *chatService) ownedSession(userEmail, sessionId string) (*chatsession.Session, error) {
	session, found := s.sessions.Get(sessionId)
	if !found {
		return nil, ErrSessionNotFound
	}
	if session.UserEmail != userEmail {
		// A session id from another account behaves like a missing one.
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func toMessageDTO(m store.Message) dto.ChatMessageDTO {
	return dto.ChatMessageDTO{
		Id:             m.ID,
		Text:           m.Text,
		IsUser:         m.IsUser,
		Timestamp:      m.Timestamp,
		RelevanceScore: m.RelevanceScore,
	}
}

func toMessageDTOs(messages []store.Message) []dto.ChatMessageDTO {
	out := make([]dto.ChatMessageDTO, 0, len(messages))
	for _, m := range messages {
		out = append(out, toMessageDTO(m))
	}
	return out
}
