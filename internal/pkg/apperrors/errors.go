package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError rejects bad input (wrong MIME type, missing identity)
// before any I/O is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// UploadError wraps a non-2xx or transport failure from the analyzer webhook.
// Message carries the upstream error body when it parses, else a generic
// HTTP-status message.
type UploadError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UploadError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("upload failed: HTTP status %d", e.StatusCode)
	}
	return fmt.Sprintf("upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistenceError signals that the metadata write after a successful
// analysis failed. The analysis itself still counts as succeeded; this is
// reported, never retried.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist analysis result: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ChatRequestError wraps a non-2xx or transport failure from the chat
// responder webhook.
type ChatRequestError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ChatRequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("chat request failed: HTTP status %d", e.StatusCode)
	}
	return fmt.Sprintf("chat request failed: %v", e.Err)
}

func (e *ChatRequestError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsUpload(err error) bool {
	var ue *UploadError
	return errors.As(err, &ue)
}

func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

func IsChatRequest(err error) bool {
	var ce *ChatRequestError
	return errors.As(err, &ce)
}
