package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartChatResponse struct {
	SessionId uuid.UUID        `json:"session_id"`
	PdfName   string           `json:"pdf_name"`
	Analysis  PdfAnalysisData  `json:"analysis"`
	Messages  []ChatMessageDTO `json:"messages"`
}

type SendChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatMessageDTO struct {
	Id             string    `json:"id"`
	Text           string    `json:"text"`
	IsUser         bool      `json:"is_user"`
	Timestamp      time.Time `json:"timestamp"`
	RelevanceScore *float64  `json:"relevance_score,omitempty"`
}

type SendChatResponse struct {
	SessionId uuid.UUID      `json:"session_id"`
	Sent      ChatMessageDTO `json:"sent"`
	Reply     ChatMessageDTO `json:"reply"`
}

type ChatHistoryResponse struct {
	SessionId uuid.UUID        `json:"session_id"`
	Messages  []ChatMessageDTO `json:"messages"`
}
