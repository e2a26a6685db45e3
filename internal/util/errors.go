package util

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUpstream            = errors.New("generation service failed")
	ErrEmptyResponse       = errors.New("empty response")
	ErrTimeout             = errors.New("request timed out")
	ErrInvalidShape        = errors.New("generated content has an invalid shape")
	ErrPersistence         = errors.New("failed to save answer")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrExecutionFailed     = errors.New("compilation or execution failed")
	ErrSessionNotFound     = errors.New("interview not found")
	ErrInvalidSession      = errors.New("interview data is invalid")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrQuotaExceeded       = errors.New("generation quota exceeded")
	ErrFileTooLarge        = errors.New("file exceeds size limit")
	ErrFileType            = errors.New("file type not allowed")
)
