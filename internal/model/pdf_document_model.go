package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PdfDocument lives in one shared table partitioned by user_id. The original
// design provisioned one table per user; a partition column plus ownership
// checks in the repository replaces that.
type PdfDocument struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	PdfName     string         `gorm:"type:varchar(255);not null"`
	OcrText     string         `gorm:"type:text"`
	Summary     string         `gorm:"type:text"`
	NumPages    int            `gorm:"default:0"`
	NumWords    int            `gorm:"default:0"`
	Language    string         `gorm:"type:varchar(100)"`
	RawAnalysis datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (PdfDocument) TableName() string {
	return "pdf_documents"
}
