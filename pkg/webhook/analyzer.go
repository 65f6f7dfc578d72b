package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"pdf-insight-be/internal/pkg/apperrors"
)

// AnalysisResult is the analyzer's flattened output for one document.
type AnalysisResult struct {
	Summary    string `json:"summary"`
	TotalPages int    `json:"totalPages"`
	TotalWords int    `json:"totalWords"`
	Language   string `json:"language"`
	OcrText    string `json:"ocrText"`
	Raw        []byte `json:"-"`
}

// analyzeEnvelope mirrors the webhook's array-of-objects response shape.
type analyzeEnvelope struct {
	Output struct {
		Summary    string `json:"summary"`
		TotalPages int    `json:"totalPages"`
		TotalWords int    `json:"totalWords"`
		Language   string `json:"language"`
		OcrText    string `json:"ocrText"`
	} `json:"output"`
}

// Analyzer posts PDF bytes to the analysis webhook and decodes the result.
type Analyzer struct {
	url    string
	client *http.Client
}

func NewAnalyzer(url string) *Analyzer {
	return &Analyzer{
		url: url,
		client: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Analyze uploads one document as multipart form data. The form carries two
// fields: "pdf" with the file bytes and "userEmail" with the owner identity.
func (a *Analyzer) Analyze(ctx context.Context, filename string, content []byte, userEmail string) (*AnalysisResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("pdf", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write file part: %w", err)
	}
	if err := writer.WriteField("userEmail", userEmail); err != nil {
		return nil, fmt.Errorf("failed to write userEmail field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &apperrors.UploadError{Message: "analysis service unreachable", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.UploadError{StatusCode: resp.StatusCode, Message: "failed to read analysis response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apperrors.UploadError{
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage("analysis service", raw, resp.StatusCode),
		}
	}

	var envelope []analyzeEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope) == 0 {
		return nil, &apperrors.UploadError{
			StatusCode: resp.StatusCode,
			Message:    "analysis response has unexpected shape",
			Err:        err,
		}
	}

	out := envelope[0].Output
	return &AnalysisResult{
		Summary:    out.Summary,
		TotalPages: out.TotalPages,
		TotalWords: out.TotalWords,
		Language:   out.Language,
		OcrText:    out.OcrText,
		Raw:        raw,
	}, nil
}

// upstreamMessage prefers the webhook's own "message" field, falling back to
// a generic description of the HTTP status naming the failing service.
func upstreamMessage(service string, raw []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fmt.Sprintf("%s returned status %d", service, status)
}
