package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeScrapeError = "SCRAPE_ERROR"
	CodeFetch       = "FETCH_ERROR"
	CodeStorage     = "STORAGE_ERROR"
	CodeCache       = "CACHE_ERROR"
	CodeValidation  = "VALIDATION_ERROR"
)

type ScrapeError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *ScrapeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ScrapeError) Unwrap() error {
	return e.Cause
}

func NewScrapeError(message, code string, statusCode int, context map[string]any) *ScrapeError {
	return &ScrapeError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *ScrapeError) WithCause(cause error) *ScrapeError {
	e.Cause = cause
	return e
}

// FetchError reports a wiki page or image that could not be retrieved.
type FetchError struct {
	*ScrapeError
	URL string
}

func NewFetchError(message, url string, statusCode int, cause error) *FetchError {
	return &FetchError{
		ScrapeError: &ScrapeError{
			Message:    message,
			Code:       CodeFetch,
			StatusCode: statusCode,
			Context: map[string]any{
				"url": url,
			},
			Cause: cause,
		},
		URL: url,
	}
}

type StorageError struct {
	*ScrapeError
	Operation string
	Path      string
}

func NewStorageError(message, operation, path string, cause error) *StorageError {
	return &StorageError{
		ScrapeError: &ScrapeError{
			Message:    message,
			Code:       CodeStorage,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"path":      path,
			},
			Cause: cause,
		},
		Operation: operation,
		Path:      path,
	}
}

type CacheError struct {
	*ScrapeError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		ScrapeError: &ScrapeError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ValidationError struct {
	*ScrapeError
	Field string
	Value any
}

func NewValidationError(message, field string, value any) *ValidationError {
	return &ValidationError{
		ScrapeError: &ScrapeError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// IsFetchError reports whether err wraps a *FetchError.
func IsFetchError(err error) bool {
	var target *FetchError
	return stderrors.As(err, &target)
}

// IsStorageError reports whether err wraps a *StorageError.
func IsStorageError(err error) bool {
	var target *StorageError
	return stderrors.As(err, &target)
}
