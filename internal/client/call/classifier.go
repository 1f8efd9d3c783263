package call

import (
	"net/http"
	"strings"

	"github.com/mentorhub/mentorhub/internal/common/httpclient"
)

// ErrorKind is the closed taxonomy of meeting failures.
type ErrorKind string

const (
	KindPermission   ErrorKind = "permission"
	KindNetwork      ErrorKind = "network"
	KindRoomExpired  ErrorKind = "room-expired"
	KindUnauthorized ErrorKind = "unauthorized"
	KindUnknown      ErrorKind = "unknown"
)

// MeetingError is a classified meeting failure. Recoverability is derived
// from the kind, never set independently.
type MeetingError struct {
	Kind    ErrorKind
	Message string
	Detail  string
}

func (e *MeetingError) Error() string {
	return e.Message
}

// Recoverable reports whether a same-context retry is meaningful for this
// kind of failure. Permission and network failures are user-fixable; an
// expired room or a rejected token is not. Unknown failures default to
// recoverable since a blind retry is the least-bad option.
func (e *MeetingError) Recoverable() bool {
	switch e.Kind {
	case KindRoomExpired, KindUnauthorized:
		return false
	}
	return true
}

// matching is case-insensitive substring matching over the raw message;
// transport and browser error strings vary in casing and phrasing.
var kindMarkers = []struct {
	kind    ErrorKind
	markers []string
}{
	{KindPermission, []string{"permission", "not allowed", "notallowederror", "denied by the user", "device in use", "device busy", "notreadableerror"}},
	{KindUnauthorized, []string{"unauthorized", "forbidden", "access denied", "invalid token", "token expired", "not a participant"}},
	{KindRoomExpired, []string{"room expired", "room-expired", "room closed", "room has expired", "no longer exists", "expired"}},
	{KindNetwork, []string{"timeout", "timed out", "network", "disconnect", "connection refused", "connection reset", "dns", "ice", "unreachable", "broken pipe", "eof"}},
}

// Classify maps a raw failure into the closed taxonomy. It is a total
// function: every error lands in exactly one bucket, defaulting to unknown.
func Classify(err error) *MeetingError {
	if err == nil {
		return nil
	}
	if meetingErr, ok := err.(*MeetingError); ok {
		return meetingErr
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	// HTTP status codes from the session API are stronger signals than
	// message text
	if httpErr, ok := err.(*httpclient.HTTPError); ok {
		switch httpErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &MeetingError{Kind: KindUnauthorized, Message: msg}
		case http.StatusGone:
			return &MeetingError{Kind: KindRoomExpired, Message: msg}
		}
	}

	for _, entry := range kindMarkers {
		for _, marker := range entry.markers {
			if strings.Contains(lower, marker) {
				return &MeetingError{Kind: entry.kind, Message: msg}
			}
		}
	}
	return &MeetingError{Kind: KindUnknown, Message: msg}
}
