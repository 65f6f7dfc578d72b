package events

import "time"

const (
	TypeUserRegistered   = "USER_REGISTERED"
	TypeDocumentAnalyzed = "DOCUMENT_ANALYZED"
	TypeDocumentDeleted  = "DOCUMENT_DELETED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_ANALYZED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewUserRegistered records a completed signup, before email verification.
func NewUserRegistered(userID, email string) Event {
	return BaseEvent{
		Type: TypeUserRegistered,
		Data: map[string]interface{}{
			"user_id": userID,
			"email":   email,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentAnalyzed records a document whose webhook analysis finished,
// whether or not persistence succeeded afterwards.
func NewDocumentAnalyzed(documentID, userEmail, pdfName string, persisted bool) Event {
	return BaseEvent{
		Type: TypeDocumentAnalyzed,
		Data: map[string]interface{}{
			"document_id": documentID,
			"user_email":  userEmail,
			"pdf_name":    pdfName,
			"persisted":   persisted,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentDeleted records a soft delete of a stored document.
func NewDocumentDeleted(documentID, userEmail string) Event {
	return BaseEvent{
		Type: TypeDocumentDeleted,
		Data: map[string]interface{}{
			"document_id": documentID,
			"user_email":  userEmail,
		},
		OccurredAt: time.Now(),
	}
}
