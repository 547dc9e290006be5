package reviews

import (
	"errors"
	"net/http"
)

// Domain errors for review operations.
var (
	ErrNotFound           = errors.New("review not found")
	ErrDuplicate          = errors.New("review already recorded")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrUnknownReviewer    = errors.New("unknown reviewer")
	ErrStillProcessing    = errors.New("submission is still processing")
	ErrInvalidID          = errors.New("invalid review id")
)

// MapHTTPStatus maps review domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSubmissionNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrStillProcessing) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrUnknownReviewer) || errors.Is(err, ErrInvalidID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
