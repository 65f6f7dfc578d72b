package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"pdf-insight-be/internal/dto"
	"pdf-insight-be/internal/pkg/apperrors"
	"pdf-insight-be/internal/pkg/logger"
	"pdf-insight-be/pkg/events"
	pktNats "pdf-insight-be/pkg/nats"
	"pdf-insight-be/pkg/progress"
	"pdf-insight-be/pkg/webhook"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// DocumentAnalyzer is the outbound analysis webhook seen from the upload side.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, filename string, content []byte, userEmail string) (*webhook.AnalysisResult, error)
}

type IUploadService interface {
	Upload(ctx context.Context, userId uuid.UUID, userEmail, uploadId, fileName, contentType string, content []byte) (*dto.UploadDocumentResponse, error)
	Progress(uploadId string) (*dto.UploadProgressResponse, error)
	SweepStaleTrackers()
}

type uploadService struct {
	analyzer         DocumentAnalyzer
	documentService  IDocumentService
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	log              logger.ILogger

	// One tracker per in-flight or recently finished upload, keyed by upload
	// id. Finished trackers linger so the client's final poll still sees 100.
	trackers *gocache.Cache
}

func NewUploadService(
	analyzer DocumentAnalyzer,
	documentService IDocumentService,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IUploadService {
	trackers := gocache.New(30*time.Minute, 10*time.Minute)
	trackers.OnEvicted(func(_ string, v interface{}) {
		if t, ok := v.(*progress.Tracker); ok {
			t.Stop()
		}
	})

	return &uploadService{
		analyzer:         analyzer,
		documentService:  documentService,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
		trackers:         trackers,
	}
}

// validate runs every cheap check before any file bytes leave the process.
func (s *uploadService) validate(userEmail, fileName, contentType string, content []byte) error {
	if userEmail == "" {
		return &apperrors.ValidationError{Field: "userEmail", Reason: "user identity is required before uploading"}
	}
	if len(content) == 0 {
		return &apperrors.ValidationError{Field: "pdf", Reason: "file is empty"}
	}
	// The declared MIME type is authoritative; the extension only decides
	// when the client sent no type at all.
	isPdf := contentType == "application/pdf" ||
		(contentType == "" && strings.HasSuffix(strings.ToLower(fileName), ".pdf"))
	if !isPdf {
		return &apperrors.ValidationError{Field: "pdf", Reason: "only PDF files are accepted"}
	}
	return nil
}

// Upload runs the full analyze-then-persist pipeline. The uploadId keys the
// progress tracker; clients that want to poll progress while the request is
// still in flight generate the id themselves and send it with the upload.
// An empty id gets one assigned.
func (s *uploadService) Upload(ctx context.Context, userId uuid.UUID, userEmail, uploadId, fileName, contentType string, content []byte) (*dto.UploadDocumentResponse, error) {
	if err := s.validate(userEmail, fileName, contentType, content); err != nil {
		return nil, err
	}
	if err := s.documentService.EnsureProvisioned(ctx, userId); err != nil {
		return nil, err
	}

	if uploadId == "" {
		uploadId = uuid.New().String()
	} else if _, exists := s.trackers.Get(uploadId); exists {
		return nil, &apperrors.ValidationError{Field: "uploadId", Reason: "upload id is already in use"}
	}
	tracker := progress.NewTracker()
	s.trackers.Set(uploadId, tracker, gocache.DefaultExpiration)
	tracker.Start()

	// 1. Analyze via webhook
	analysis, err := s.analyzer.Analyze(ctx, fileName, content, userEmail)
	if err != nil {
		tracker.Fail()
		return nil, err
	}

	// 2. Persist metadata. A failure here does not fail the upload; the
	// analysis already succeeded and the client gets the result regardless.
	persisted := true
	var docId uuid.UUID
	doc, err := s.documentService.Insert(ctx, userId, fileName, analysis)
	if err != nil {
		persisted = false
		s.log.Error("upload", "analysis succeeded but persistence failed", map[string]interface{}{
			"pdf_name": fileName,
			"error":    err.Error(),
		})
	} else {
		docId = doc.Id
	}

	tracker.Complete()

	// 3. Announce completion for the notification pipeline
	msgPayload := dto.DocumentAnalyzedMessage{
		DocumentId: docId,
		UserId:     userId,
		UserEmail:  userEmail,
		PdfName:    fileName,
		Persisted:  persisted,
	}
	if msgJson, err := json.Marshal(msgPayload); err == nil {
		if err := s.publisherService.Publish(ctx, msgJson); err != nil {
			s.log.Warn("upload", "failed to publish document.analyzed message", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewDocumentAnalyzed(docId.String(), userEmail, fileName, persisted)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("upload", "failed to publish DOCUMENT_ANALYZED event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &dto.UploadDocumentResponse{
		Id:       docId,
		UploadId: uploadId,
		PdfName:  fileName,
		Analysis: dto.PdfAnalysisData{
			Summary:    analysis.Summary,
			TotalPages: analysis.TotalPages,
			TotalWords: analysis.TotalWords,
			Language:   analysis.Language,
		},
		Persisted: persisted,
	}, nil
}

func (s *uploadService) Progress(uploadId string) (*dto.UploadProgressResponse, error) {
	v, found := s.trackers.Get(uploadId)
	if !found {
		return nil, &apperrors.ValidationError{Field: "upload_id", Reason: "unknown upload"}
	}
	tracker, ok := v.(*progress.Tracker)
	if !ok {
		return nil, &apperrors.ValidationError{Field: "upload_id", Reason: "unknown upload"}
	}

	value, done, failed := tracker.Value()
	return &dto.UploadProgressResponse{
		UploadId: uploadId,
		Progress: value,
		Done:     done,
		Failed:   failed,
	}, nil
}

// SweepStaleTrackers evicts expired trackers. Eviction stops any ticker
// goroutine still attached to them. Runs on a schedule.
func (s *uploadService) SweepStaleTrackers() {
	s.trackers.DeleteExpired()
}
