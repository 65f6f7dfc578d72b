package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pdf-insight-be/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSendsMultipartAndParsesResponse(t *testing.T) {
	var gotEmail, gotFilename string
	var gotFile []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotEmail = r.FormValue("userEmail")

		file, header, err := r.FormFile("pdf")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		gotFile, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"output":{"summary":"A test doc.","totalPages":3,"totalWords":900,"language":"en","ocrText":"hello"}}]`))
	}))
	defer srv.Close()

	a := NewAnalyzer(srv.URL)
	res, err := a.Analyze(context.Background(), "test.pdf", []byte("%PDF-1.4"), "user@example.com")
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", gotEmail)
	assert.Equal(t, "test.pdf", gotFilename)
	assert.Equal(t, []byte("%PDF-1.4"), gotFile)

	assert.Equal(t, "A test doc.", res.Summary)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 900, res.TotalWords)
	assert.Equal(t, "en", res.Language)
	assert.Equal(t, "hello", res.OcrText)
	assert.NotEmpty(t, res.Raw)
}

func TestAnalyzeUpstreamErrorUsesMessageField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"file is not a valid PDF"}`))
	}))
	defer srv.Close()

	a := NewAnalyzer(srv.URL)
	_, err := a.Analyze(context.Background(), "bad.pdf", []byte("junk"), "user@example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpload(err))
	assert.Contains(t, err.Error(), "file is not a valid PDF")
}

func TestAnalyzeUpstreamErrorWithoutMessageFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`oops`))
	}))
	defer srv.Close()

	a := NewAnalyzer(srv.URL)
	_, err := a.Analyze(context.Background(), "x.pdf", []byte("%PDF"), "user@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis service returned status 500")
}

func TestAnalyzeUnexpectedShapeIsUploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	a := NewAnalyzer(srv.URL)
	_, err := a.Analyze(context.Background(), "x.pdf", []byte("%PDF"), "user@example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpload(err))
	assert.Contains(t, err.Error(), "unexpected shape")
}

func TestAnalyzeUnreachableService(t *testing.T) {
	a := NewAnalyzer("http://127.0.0.1:1")
	_, err := a.Analyze(context.Background(), "x.pdf", []byte("%PDF"), "user@example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpload(err))
}
