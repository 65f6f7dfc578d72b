package dto

import "github.com/google/uuid"

// DocumentAnalyzedMessage is the payload published after a document's
// analysis finishes, whether or not the result could be persisted.
type DocumentAnalyzedMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
	UserId     uuid.UUID `json:"user_id"`
	UserEmail  string    `json:"user_email"`
	PdfName    string    `json:"pdf_name"`
	Persisted  bool      `json:"persisted"`
}
