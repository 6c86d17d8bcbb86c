package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	ErrRoomNotFound      = fmt.Errorf("room not found")
	ErrVersionConflict   = fmt.Errorf("room document was modified concurrently")
	ErrInvalidRoom       = fmt.Errorf("invalid room request")
	ErrCodeExhausted     = fmt.Errorf("no free room code after retries")
	ErrCodeTaken         = fmt.Errorf("room code already in use")
	ErrHubNotStarted     = fmt.Errorf("session hub is not started")
	ErrRoomBusy          = fmt.Errorf("room inbox is full")
	ErrMissingCredential = fmt.Errorf("summary API credential is missing")
	ErrSummaryFailed     = fmt.Errorf("summary generation failed")
	ErrUnknownEvent      = fmt.Errorf("unknown realtime event")
)

// MapToHTTPStatus translates domain errors into the status code returned by the HTTP layer.
func MapToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.Is(err, ErrRoomNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, ErrInvalidRoom):
		return http.StatusBadRequest
	case stderrors.Is(err, ErrVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
