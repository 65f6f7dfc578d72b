package unitofwork

import (
	"context"

	"pdf-insight-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	PdfDocumentRepository() contract.PdfDocumentRepository
}
