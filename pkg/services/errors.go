package services

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentProcessing  = errors.New("error processing resume file")
	ErrUnsupportedDocument = fmt.Errorf("%w: unsupported document type", ErrDocumentProcessing)
	ErrAIService           = errors.New("AI service error")
)

// DocumentError reports a résumé upload that could not be turned into text.
type DocumentError struct {
	MimeType string
	Err      error
}

func (e *DocumentError) Error() string {
	if e.MimeType == "" {
		return fmt.Sprintf("%v: %v", ErrDocumentProcessing, e.Err)
	}
	return fmt.Sprintf("%v (%s): %v", ErrDocumentProcessing, e.MimeType, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

func (e *DocumentError) Is(target error) bool { return target == ErrDocumentProcessing }

// AIServiceError wraps any failure of the inference endpoint. StatusCode is
// zero when no response was received.
type AIServiceError struct {
	StatusCode int
	Err        error
}

func (e *AIServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v: status %d: %v", ErrAIService, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrAIService, e.Err)
}

func (e *AIServiceError) Unwrap() error { return e.Err }

func (e *AIServiceError) Is(target error) bool { return target == ErrAIService }
