package service

import (
	"context"
	"errors"
	"testing"

	"pdf-insight-be/internal/dto"
	"pdf-insight-be/internal/entity"
	"pdf-insight-be/internal/pkg/apperrors"
	"pdf-insight-be/pkg/webhook"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeAnalyzer struct {
	calls  int
	result *webhook.AnalysisResult
	err    error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, filename string, content []byte, userEmail string) (*webhook.AnalysisResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeDocumentService struct {
	insertErr error
	inserted  *entity.PdfDocument
}

func (f *fakeDocumentService) EnsureProvisioned(ctx context.Context, userId uuid.UUID) error {
	return nil
}

func (f *fakeDocumentService) Insert(ctx context.Context, userId uuid.UUID, pdfName string, analysis *webhook.AnalysisResult) (*entity.PdfDocument, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted = &entity.PdfDocument{Id: uuid.New(), UserId: userId, PdfName: pdfName}
	return f.inserted, nil
}

func (f *fakeDocumentService) List(ctx context.Context, userId uuid.UUID) ([]dto.DocumentListItem, error) {
	return nil, nil
}

func (f *fakeDocumentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentDetailResponse, error) {
	return nil, nil
}

func (f *fakeDocumentService) Delete(ctx context.Context, userId uuid.UUID, userEmail string, id uuid.UUID) error {
	return nil
}

type fakePublisher struct {
	payloads [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

func goodAnalysis() *webhook.AnalysisResult {
	return &webhook.AnalysisResult{
		Summary:    "summary",
		TotalPages: 2,
		TotalWords: 300,
		Language:   "en",
		Raw:        []byte(`[]`),
	}
}

func newTestUploadService(analyzer *fakeAnalyzer, docs *fakeDocumentService) (IUploadService, *fakePublisher) {
	pub := &fakePublisher{}
	return NewUploadService(analyzer, docs, pub, nil, nopLogger{}), pub
}

func TestUploadRejectsNonPdfBeforeAnyNetworkCall(t *testing.T) {
	analyzer := &fakeAnalyzer{result: goodAnalysis()}
	svc, _ := newTestUploadService(analyzer, &fakeDocumentService{})

	_, err := svc.Upload(context.Background(), uuid.New(), "user@example.com", "", "notes.txt", "text/plain", []byte("hello"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, analyzer.calls)
}

func TestUploadRejectsPdfNamedFileWithWrongContentType(t *testing.T) {
	analyzer := &fakeAnalyzer{result: goodAnalysis()}
	svc, _ := newTestUploadService(analyzer, &fakeDocumentService{})

	_, err := svc.Upload(context.Background(), uuid.New(), "user@example.com", "", "report.pdf", "text/plain", []byte("hello"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, analyzer.calls)
}

func TestUploadAcceptsPdfByExtensionWhenContentTypeMissing(t *testing.T) {
	analyzer := &fakeAnalyzer{result: goodAnalysis()}
	svc, _ := newTestUploadService(analyzer, &fakeDocumentService{})

	_, err := svc.Upload(context.Background(), uuid.New(), "user@example.com", "", "doc.pdf", "", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, 1, analyzer.calls)
}

func TestUploadRejectsMissingIdentityBeforeAnyNetworkCall(t *testing.T) {
	analyzer := &fakeAnalyzer{result: goodAnalysis()}
	svc, _ := newTestUploadService(analyzer, &fakeDocumentService{})

	_, err := svc.Upload(context.Background(), uuid.New(), "", "", "doc.pdf", "application/pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, analyzer.calls)
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	analyzer := &fakeAnalyzer{result: goodAnalysis()}
	svc, _ := newTestUploadService(analyzer, &fakeDocumentService{})

	_, err := svc.Upload(context.Background(), uuid.New(), "user@example.com", "", "doc.pdf", "application/pdf", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, analyzer.calls)
}

func TestUploadAcceptsPdfByContentTypeAlone(t *testing.T) {
	analyzer := &fakeAnalyzer{result: goodAnalysis()}
	svc, _ := newTestUploadService(analyzer, &fakeDocumentService{})

	res, err := svc.Upload(context.Background(), uuid.New(), "user@example.com", "", "upload", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, 1, analyzer.calls)
	assert.True(t, res.Persisted)
}

func TestUploadSuccessReportsAnalysisAndProgress(t *testing.T) {
	analyzer := &fakeAnalyzer{result: goodAnalysis()}
	docs := &fakeDocumentService{}
	svc, pub := newTestUploadService(analyzer, docs)

	res, err := svc.Upload(context.Background(), uuid.New(), "user@example.com", "", "doc.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, docs.inserted.Id, res.Id)
	assert.Equal(t, "doc.pdf", res.PdfName)
	assert.Equal(t, "summary", res.Analysis.Summary)
	assert.True(t, res.Persisted)
	assert.Len(t, pub.payloads, 1)

	progress, err := svc.Progress(res.UploadId)
	require.NoError(t, err)
	assert.Equal(t, 100, progress.Progress)
	assert.True(t, progress.Done)
	assert.False(t, progress.Failed)
}

func TestUploadAnalyzerFailureFailsTracker(t *testing.T) {
	analyzer := &fakeAnalyzer{err: &apperrors.UploadError{StatusCode: 502, Message: "workflow offline"}}
	svc, pub := newTestUploadService(analyzer, &fakeDocumentService{})

	_, err := svc.Upload(context.Background(), uuid.New(), "user@example.com", "", "doc.pdf", "application/pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.True(t, apperrors.IsUpload(err))
	assert.Empty(t, pub.payloads)
}

func TestUploadPersistenceFailureStillReturnsAnalysis(t *testing.T) {
	analyzer := &fakeAnalyzer{result: goodAnalysis()}
	docs := &fakeDocumentService{insertErr: errors.New("table missing")}
	svc, pub := newTestUploadService(analyzer, docs)

	res, err := svc.Upload(context.Background(), uuid.New(), "user@example.com", "", "doc.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)

	assert.False(t, res.Persisted)
	assert.Equal(t, uuid.Nil, res.Id)
	assert.Equal(t, "summary", res.Analysis.Summary)

	// The completion message still goes out, flagged as unpersisted.
	require.Len(t, pub.payloads, 1)
	assert.Contains(t, string(pub.payloads[0]), `"persisted":false`)
}

type gatedAnalyzer struct {
	entered chan struct{}
	release chan struct{}
	result  *webhook.AnalysisResult
}

func (g *gatedAnalyzer) Analyze(ctx context.Context, filename string, content []byte, userEmail string) (*webhook.AnalysisResult, error) {
	close(g.entered)
	<-g.release
	return g.result, nil
}

func TestUploadProgressObservableWhileAnalyzing(t *testing.T) {
	analyzer := &gatedAnalyzer{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		result:  goodAnalysis(),
	}
	pub := &fakePublisher{}
	svc := NewUploadService(analyzer, &fakeDocumentService{}, pub, nil, nopLogger{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := svc.Upload(context.Background(), uuid.New(), "user@example.com", "live-upload", "doc.pdf", "application/pdf", []byte("%PDF"))
		assert.NoError(t, err)
	}()

	<-analyzer.entered

	// The client-supplied id is pollable before the analyzer responds.
	p, err := svc.Progress("live-upload")
	require.NoError(t, err)
	assert.False(t, p.Done)
	assert.False(t, p.Failed)
	assert.Less(t, p.Progress, 100)

	close(analyzer.release)
	<-done

	p, err = svc.Progress("live-upload")
	require.NoError(t, err)
	assert.Equal(t, 100, p.Progress)
	assert.True(t, p.Done)
}

func TestUploadRejectsReusedUploadId(t *testing.T) {
	analyzer := &fakeAnalyzer{result: goodAnalysis()}
	svc, _ := newTestUploadService(analyzer, &fakeDocumentService{})

	_, err := svc.Upload(context.Background(), uuid.New(), "user@example.com", "reuse", "doc.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), uuid.New(), "user@example.com", "reuse", "doc.pdf", "application/pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 1, analyzer.calls)
}

func TestProgressUnknownUploadId(t *testing.T) {
	svc, _ := newTestUploadService(&fakeAnalyzer{}, &fakeDocumentService{})

	_, err := svc.Progress("nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
