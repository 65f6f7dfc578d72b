package entity

import (
	"time"

	"github.com/google/uuid"
)

// PdfDocument is the persisted metadata record for one analyzed upload.
// OcrText and Summary come straight from the analyzer webhook; the chat core
// never mutates a record after creation.
type PdfDocument struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	PdfName     string
	OcrText     string
	Summary     string
	NumPages    int
	NumWords    int
	Language    string
	RawAnalysis []byte // analyzer response envelope, stored verbatim
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
