package meeting

import (
	"net/http"

	"github.com/mentorhub/mentorhub/internal/common/apperrors"
)

var (
	ErrMeetingError   apperrors.Error = apperrors.New("meeting error")
	ErrInvalidToken   apperrors.Error = ErrMeetingError.New("invalid meeting token").SetStatusCode(http.StatusUnauthorized)
	ErrTokenExpired   apperrors.Error = ErrMeetingError.New("meeting token expired").SetStatusCode(http.StatusUnauthorized)
	ErrRoomMismatch   apperrors.Error = ErrMeetingError.New("token is not valid for this room").SetStatusCode(http.StatusForbidden)
	ErrRoomClosed     apperrors.Error = ErrMeetingError.New("meeting room is closed").SetStatusCode(http.StatusGone)
	ErrUnableToCreate apperrors.Error = ErrMeetingError.New("unable to create meeting token").SetStatusCode(http.StatusInternalServerError)
)
