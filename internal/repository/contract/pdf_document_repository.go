package contract

import (
	"context"

	"pdf-insight-be/internal/entity"
	"pdf-insight-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PdfDocumentRepository interface {
	Create(ctx context.Context, doc *entity.PdfDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PdfDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PdfDocument, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
