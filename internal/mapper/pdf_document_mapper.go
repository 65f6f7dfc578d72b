package mapper

import (
	"time"

	"pdf-insight-be/internal/entity"
	"pdf-insight-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PdfDocumentMapper struct{}

func NewPdfDocumentMapper() *PdfDocumentMapper {
	return &PdfDocumentMapper{}
}

func (m *PdfDocumentMapper) ToEntity(d *model.PdfDocument) *entity.PdfDocument {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.PdfDocument{
		Id:          d.Id,
		UserId:      d.UserId,
		PdfName:     d.PdfName,
		OcrText:     d.OcrText,
		Summary:     d.Summary,
		NumPages:    d.NumPages,
		NumWords:    d.NumWords,
		Language:    d.Language,
		RawAnalysis: []byte(d.RawAnalysis),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   d.DeletedAt.Valid,
	}
}

func (m *PdfDocumentMapper) ToModel(d *entity.PdfDocument) *model.PdfDocument {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.PdfDocument{
		Id:          d.Id,
		UserId:      d.UserId,
		PdfName:     d.PdfName,
		OcrText:     d.OcrText,
		Summary:     d.Summary,
		NumPages:    d.NumPages,
		NumWords:    d.NumWords,
		Language:    d.Language,
		RawAnalysis: datatypes.JSON(d.RawAnalysis),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *PdfDocumentMapper) ToEntities(docs []*model.PdfDocument) []*entity.PdfDocument {
	entities := make([]*entity.PdfDocument, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
