package submissions

import (
	"errors"
	"net/http"
)

// Domain errors for submission operations.
var (
	ErrNotFound      = errors.New("submission not found")
	ErrDuplicate     = errors.New("submission already exists")
	ErrFileTooLarge  = errors.New("file exceeds maximum upload size")
	ErrInvalidFile   = errors.New("invalid file")
	ErrInvalidID     = errors.New("invalid submission id")
	ErrNotPDF        = errors.New("paper must be a PDF")
	ErrNoCertificate = errors.New("certificate not available")
)

// MapHTTPStatus maps submission domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoCertificate) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrInvalidFile) || errors.Is(err, ErrInvalidID) || errors.Is(err, ErrNotPDF) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
