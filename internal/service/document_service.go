package service

import (
	"context"
	"fmt"
	"time"

	"pdf-insight-be/internal/dto"
	"pdf-insight-be/internal/entity"
	"pdf-insight-be/internal/pkg/apperrors"
	"pdf-insight-be/internal/pkg/logger"
	"pdf-insight-be/internal/repository/specification"
	"pdf-insight-be/internal/repository/unitofwork"
	"pdf-insight-be/pkg/events"
	pktNats "pdf-insight-be/pkg/nats"
	"pdf-insight-be/pkg/webhook"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type IDocumentService interface {
	EnsureProvisioned(ctx context.Context, userId uuid.UUID) error
	Insert(ctx context.Context, userId uuid.UUID, pdfName string, analysis *webhook.AnalysisResult) (*entity.PdfDocument, error)
	List(ctx context.Context, userId uuid.UUID) ([]dto.DocumentListItem, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentDetailResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, userEmail string, id uuid.UUID) error
}

type documentService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	log            logger.ILogger

	// Detail reads hit the same documents repeatedly during a chat session,
	// so recently fetched records are kept for a short window.
	detailCache *expirable.LRU[string, *entity.PdfDocument]
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher, log logger.ILogger) IDocumentService {
	return &documentService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		log:            log,
		detailCache:    expirable.NewLRU[string, *entity.PdfDocument](256, nil, 5*time.Minute),
	}
}

func cacheKey(userId, docId uuid.UUID) string {
	return fmt.Sprintf("%s/%s", userId, docId)
}

// EnsureProvisioned verifies the owning user row exists before documents are
// written on its behalf. The shared table needs no per-user setup, so this is
// a pure existence check.
func (s *documentService) EnsureProvisioned(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return &apperrors.ValidationError{Field: "user", Reason: "unknown identity"}
	}
	return nil
}

func (s *documentService) Insert(ctx context.Context, userId uuid.UUID, pdfName string, analysis *webhook.AnalysisResult) (*entity.PdfDocument, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc := &entity.PdfDocument{
		Id:          uuid.New(),
		UserId:      userId,
		PdfName:     pdfName,
		OcrText:     analysis.OcrText,
		Summary:     analysis.Summary,
		NumPages:    analysis.TotalPages,
		NumWords:    analysis.TotalWords,
		Language:    analysis.Language,
		RawAnalysis: analysis.Raw,
		CreatedAt:   time.Now(),
	}

	if err := uow.PdfDocumentRepository().Create(ctx, doc); err != nil {
		return nil, &apperrors.PersistenceError{Err: err}
	}

	return doc, nil
}

func (s *documentService) List(ctx context.Context, userId uuid.UUID) ([]dto.DocumentListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.PdfDocumentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DocumentListItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, dto.DocumentListItem{
			Id:        doc.Id,
			PdfName:   doc.PdfName,
			Summary:   doc.Summary,
			NumPages:  doc.NumPages,
			NumWords:  doc.NumWords,
			Language:  doc.Language,
			CreatedAt: doc.CreatedAt,
		})
	}
	return items, nil
}

func (s *documentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentDetailResponse, error) {
	doc, err := s.findOwned(ctx, userId, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	return &dto.DocumentDetailResponse{
		Id:        doc.Id,
		PdfName:   doc.PdfName,
		OcrText:   doc.OcrText,
		Summary:   doc.Summary,
		NumPages:  doc.NumPages,
		NumWords:  doc.NumWords,
		Language:  doc.Language,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// findOwned fetches one document scoped to its owner, through the cache.
func (s *documentService) findOwned(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*entity.PdfDocument, error) {
	key := cacheKey(userId, id)
	if doc, ok := s.detailCache.Get(key); ok {
		return doc, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.PdfDocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		s.detailCache.Add(key, doc)
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, userEmail string, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.PdfDocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}

	if err := uow.PdfDocumentRepository().Delete(ctx, doc.Id); err != nil {
		return err
	}

	s.detailCache.Remove(cacheKey(userId, id))

	if s.eventPublisher != nil {
		evt := events.NewDocumentDeleted(doc.Id.String(), userEmail)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("document", "failed to publish DOCUMENT_DELETED event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return nil
}
