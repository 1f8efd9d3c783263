package session

import (
	"net/http"

	"github.com/mentorhub/mentorhub/internal/common/apperrors"
)

var (
	ErrSessionError        apperrors.Error = apperrors.New("session error")
	ErrInvalidRequest      apperrors.Error = ErrSessionError.New("invalid request").SetStatusCode(http.StatusBadRequest)
	ErrValidationFailed    apperrors.Error = ErrSessionError.New("validation failed").SetStatusCode(http.StatusBadRequest)
	ErrNotFound            apperrors.Error = ErrSessionError.New("session not found").SetStatusCode(http.StatusNotFound)
	ErrNotParticipant      apperrors.Error = ErrSessionError.New("not a participant of this session").SetStatusCode(http.StatusForbidden)
	ErrMentorOnly          apperrors.Error = ErrSessionError.New("operation is restricted to the mentor").SetStatusCode(http.StatusForbidden)
	ErrInvalidTransition   apperrors.Error = ErrSessionError.New("status transition not allowed").SetStatusCode(http.StatusConflict)
	ErrAlreadyCompleted    apperrors.Error = ErrSessionError.New("session is already completed").SetStatusCode(http.StatusConflict)
	ErrJoinWindowClosed    apperrors.Error = ErrSessionError.New("join window is closed").SetStatusCode(http.StatusForbidden)
	ErrMissingUser         apperrors.Error = ErrSessionError.New("caller identity is required").SetStatusCode(http.StatusUnauthorized)
	ErrScheduledInPast     apperrors.Error = ErrSessionError.New("session cannot be scheduled in the past").SetStatusCode(http.StatusBadRequest)
	ErrUnknownMentor       apperrors.Error = ErrSessionError.New("mentor has no published availability").SetStatusCode(http.StatusNotFound)
	ErrSlotRangeTooLarge   apperrors.Error = ErrSessionError.New("requested slot range is too large").SetStatusCode(http.StatusBadRequest)
	ErrOwnAvailabilityOnly apperrors.Error = ErrSessionError.New("availability can only be changed by its mentor").SetStatusCode(http.StatusForbidden)
)
