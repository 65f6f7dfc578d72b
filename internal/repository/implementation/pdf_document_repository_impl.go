package implementation

import (
	"context"
	"errors"

	"pdf-insight-be/internal/entity"
	"pdf-insight-be/internal/mapper"
	"pdf-insight-be/internal/model"
	"pdf-insight-be/internal/repository/contract"
	"pdf-insight-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PdfDocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PdfDocumentMapper
}

func NewPdfDocumentRepository(db *gorm.DB) contract.PdfDocumentRepository {
	return &PdfDocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewPdfDocumentMapper(),
	}
}

func (r *PdfDocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PdfDocumentRepositoryImpl) Create(ctx context.Context, doc *entity.PdfDocument) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *PdfDocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PdfDocument{}, id).Error
}

func (r *PdfDocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PdfDocument, error) {
	var m model.PdfDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PdfDocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PdfDocument, error) {
	var models []*model.PdfDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PdfDocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.PdfDocument{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
