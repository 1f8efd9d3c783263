package call

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

func newSignalingStub(t *testing.T) (*httptest.Server, chan *websocket.Conn) {
	t.Helper()
	accepted := make(chan *websocket.Conn, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		accepted <- conn
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				_ = conn.Close()
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv, accepted
}

func TestWebsocketTransportCloseBeforeConnectRefusesDial(t *testing.T) {
	srv, accepted := newSignalingStub(t)

	transport := NewWebsocketTransport(srv.URL)
	require.NoError(t, transport.Close())

	err := transport.Connect(context.Background(), "tok", "Kim")
	require.Error(t, err)
	assert.Equal(t, KindNetwork, Classify(err).Kind)

	// the socket the dial produced was torn down, not left live
	serverConn := <-accepted
	t.Cleanup(func() { _ = serverConn.Close() })
	_ = serverConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, readErr := serverConn.ReadMessage()
	assert.Error(t, readErr, "peer must observe the teardown")
}

func TestWebsocketTransportReconnectAfterClose(t *testing.T) {
	srv, _ := newSignalingStub(t)

	transport := NewWebsocketTransport(srv.URL)
	require.NoError(t, transport.Connect(context.Background(), "tok", "Kim"))
	require.NoError(t, transport.Close())

	// a completed close must not poison the next connection
	require.NoError(t, transport.Connect(context.Background(), "tok", "Kim"))
	require.NoError(t, transport.Close())
}
