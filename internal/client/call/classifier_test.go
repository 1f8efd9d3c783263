package call

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorhub/internal/common/httpclient"
)

func TestClassifyNilIsNil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestClassifyPassesThroughClassifiedErrors(t *testing.T) {
	original := &MeetingError{Kind: KindRoomExpired, Message: "already classified"}
	assert.Same(t, original, Classify(original))
}

func TestClassifyMessageMarkers(t *testing.T) {
	cases := []struct {
		message     string
		kind        ErrorKind
		recoverable bool
	}{
		{"NotAllowedError: Permission denied", KindPermission, true},
		{"PERMISSION DENIED BY SYSTEM", KindPermission, true},
		{"NotReadableError: device in use", KindPermission, true},
		{"dial tcp: connection refused", KindNetwork, true},
		{"read tcp: connection reset by peer", KindNetwork, true},
		{"websocket handshake timed out", KindNetwork, true},
		{"unexpected EOF", KindNetwork, true},
		{"the meeting room has expired", KindRoomExpired, false},
		{"ROOM CLOSED", KindRoomExpired, false},
		{"Room Expired: rejoin is not possible", KindRoomExpired, false},
		{"invalid token", KindUnauthorized, false},
		{"token expired", KindUnauthorized, false},
		{"caller is not a participant of this session", KindUnauthorized, false},
		{"something inexplicable happened", KindUnknown, true},
		{"", KindUnknown, true},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			classified := Classify(errors.New(tc.message))
			require.NotNil(t, classified)
			assert.Equal(t, tc.kind, classified.Kind)
			assert.Equal(t, tc.recoverable, classified.Recoverable())
			assert.Equal(t, tc.message, classified.Message)
		})
	}
}

func TestClassifyHTTPStatusOverridesMessage(t *testing.T) {
	cases := []struct {
		status int
		kind   ErrorKind
	}{
		{401, KindUnauthorized},
		{403, KindUnauthorized},
		{410, KindRoomExpired},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("status %d", tc.status), func(t *testing.T) {
			// a message that would otherwise read as a network failure
			classified := Classify(&httpclient.HTTPError{StatusCode: tc.status, Message: "network request rejected"})
			require.NotNil(t, classified)
			assert.Equal(t, tc.kind, classified.Kind)
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// any error lands in exactly one bucket
	known := map[ErrorKind]bool{
		KindPermission:   true,
		KindNetwork:      true,
		KindRoomExpired:  true,
		KindUnauthorized: true,
		KindUnknown:      true,
	}
	for _, msg := range []string{"x", "ERR_FAILED", "panic: nil deref", "503 service unavailable"} {
		classified := Classify(errors.New(msg))
		require.NotNil(t, classified)
		assert.True(t, known[classified.Kind], "kind %q is outside the taxonomy", classified.Kind)
	}
}
