package store

import "time"

// Message is one transcript entry. Messages are append-only: never mutated,
// never reordered, discarded only when the owning session is discarded.
type Message struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	IsUser         bool      `json:"is_user"`
	Timestamp      time.Time `json:"timestamp"`
	RelevanceScore *float64  `json:"relevance_score,omitempty"`
}

// PdfAnalysis is the immutable analysis snapshot a chat session is bound to.
type PdfAnalysis struct {
	Summary    string `json:"summary"`
	TotalPages int    `json:"total_pages"`
	TotalWords int    `json:"total_words"`
	Language   string `json:"language"`
}

// Chat session states. A session leaves IDLE the moment analysis data is
// bound and a welcome message is seeded; AWAITING_RESPONSE means exactly one
// responder request is outstanding.
const (
	StateIdle             = "IDLE"
	StateReady            = "READY"
	StateAwaitingResponse = "AWAITING_RESPONSE"
)
