package dto

import (
	"time"

	"github.com/google/uuid"
)

// PdfAnalysisData is the structured output of one successful analyze round
// trip, in the exact shape the analyzer webhook reports it.
type PdfAnalysisData struct {
	Summary    string `json:"summary"`
	TotalPages int    `json:"totalPages"`
	TotalWords int    `json:"totalWords"`
	Language   string `json:"language"`
}

type UploadDocumentResponse struct {
	Id       uuid.UUID       `json:"id"`
	UploadId string          `json:"upload_id"`
	PdfName  string          `json:"pdf_name"`
	Analysis PdfAnalysisData `json:"analysis"`
	// Persisted is false when the metadata insert failed after a successful
	// analysis. The analysis result is still returned.
	Persisted bool `json:"persisted"`
}

type DocumentListItem struct {
	Id        uuid.UUID `json:"id"`
	PdfName   string    `json:"pdf_name"`
	Summary   string    `json:"summary"`
	NumPages  int       `json:"num_pages"`
	NumWords  int       `json:"num_words"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

type DocumentDetailResponse struct {
	Id        uuid.UUID  `json:"id"`
	PdfName   string     `json:"pdf_name"`
	OcrText   string     `json:"ocr_text"`
	Summary   string     `json:"summary"`
	NumPages  int        `json:"num_pages"`
	NumWords  int        `json:"num_words"`
	Language  string     `json:"language"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type UploadProgressResponse struct {
	UploadId string `json:"upload_id"`
	Progress int    `json:"progress"`
	Done     bool   `json:"done"`
	Failed   bool   `json:"failed"`
}
