package sessionclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorhub/internal/common/httpclient"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/pkg/api"
	"github.com/mentorhub/mentorhub/pkg/types"
)

type testConfig struct {
	serverURL string
	userID    string
}

func (c *testConfig) GetServerURL() string      { return c.serverURL }
func (c *testConfig) GetUserID() string         { return c.userID }
func (c *testConfig) GetToken() string          { return "" }
func (c *testConfig) GetTokenExpiry() time.Time { return time.Time{} }

var _ httpclient.Configurator = (*testConfig)(nil)

type stubServer struct {
	server   *httptest.Server
	requests []string
	session  api.Session
}

func newStubServer(t *testing.T) *stubServer {
	t.Helper()
	s := &stubServer{
		session: api.Session{
			ID:              uuid.New(),
			MentorID:        uuid.New(),
			MenteeID:        uuid.New(),
			ScheduledAt:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			DurationMinutes: 60,
			Status:          types.SessionStatusConfirmed,
		},
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/sessions" && r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(api.ListSessionsResponse{Sessions: []api.Session{s.session}})
		case r.URL.Path == "/sessions" && r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(s.session)
		case strings.HasSuffix(r.URL.Path, "/slots"):
			_ = json.NewEncoder(w).Encode(api.ListSlotsResponse{Slots: []api.BookingSlot{{
				Date:  "2026-03-02",
				Start: time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
				End:   time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
			}}})
		default:
			_ = json.NewEncoder(w).Encode(s.session)
		}
	}))
	t.Cleanup(s.server.Close)
	return s
}

func newTestClient(t *testing.T) (*Client, *stubServer) {
	t.Helper()
	stub := newStubServer(t)
	client := New(&testConfig{serverURL: stub.server.URL, userID: uuid.New().String()})
	return client, stub
}

func TestListServedFromCache(t *testing.T) {
	client, stub := newTestClient(t)
	ctx := context.Background()

	first, err := client.List(ctx, ListOptions{})
	require.NoError(t, err)
	second, err := client.List(ctx, ListOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, stub.requests, 1)
}

func TestListCacheExpires(t *testing.T) {
	client, stub := newTestClient(t)
	ctx := context.Background()

	_, err := client.List(ctx, ListOptions{})
	require.NoError(t, err)

	client.cache.now = func() time.Time { return time.Now().Add(readCacheTTL + time.Second) }
	_, err = client.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, stub.requests, 2)
}

func TestCacheKeyedByListOptions(t *testing.T) {
	client, stub := newTestClient(t)
	ctx := context.Background()

	_, err := client.List(ctx, ListOptions{})
	require.NoError(t, err)
	_, err = client.List(ctx, ListOptions{Status: "CONFIRMED"})
	require.NoError(t, err)
	assert.Len(t, stub.requests, 2)
}

func TestWritesInvalidateCache(t *testing.T) {
	client, stub := newTestClient(t)
	ctx := context.Background()

	_, err := client.List(ctx, ListOptions{})
	require.NoError(t, err)

	_, err = client.Cancel(ctx, stub.session.ID, "sick")
	require.NoError(t, err)

	_, err = client.List(ctx, ListOptions{})
	require.NoError(t, err)

	// list, cancel, list again after the write purged the cache
	assert.Len(t, stub.requests, 3)
}

func TestGetCachedUntilTokenIssued(t *testing.T) {
	client, stub := newTestClient(t)
	ctx := context.Background()

	_, err := client.Get(ctx, stub.session.ID)
	require.NoError(t, err)
	_, err = client.Get(ctx, stub.session.ID)
	require.NoError(t, err)
	assert.Len(t, stub.requests, 1)

	// issuing a token can flip the session to IN_PROGRESS server-side
	_, err = client.GetMeetingToken(ctx, stub.session.ID)
	require.NoError(t, err)
	_, err = client.Get(ctx, stub.session.ID)
	require.NoError(t, err)
	assert.Len(t, stub.requests, 3)
}

func TestServerErrorsSurfaceWithoutRetry(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"result":0,"error":"requested time overlaps an existing session"}`))
	}))
	defer server.Close()

	client := New(&testConfig{serverURL: server.URL, userID: uuid.New().String()})
	_, err := client.Create(context.Background(), &api.CreateSessionRequest{
		MentorID:        uuid.New(),
		ScheduledAt:     time.Now().Add(time.Hour),
		DurationMinutes: 60,
		Timezone:        "UTC",
	})
	require.Error(t, err)

	httpErr, ok := err.(*httpclient.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.StatusCode)
	assert.Equal(t, "requested time overlaps an existing session", httpErr.Message)
	assert.Equal(t, 1, calls)
}

func TestSlotsNotCached(t *testing.T) {
	client, stub := newTestClient(t)
	ctx := context.Background()
	mentorID := uuid.New()
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	slots, err := client.Slots(ctx, mentorID, from, from, 60, "UTC")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].Start.Equal(time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)))

	// a second fetch always hits the server; derived slots are never cached
	_, err = client.Slots(ctx, mentorID, from, from, 60, "UTC")
	require.NoError(t, err)
	assert.Len(t, stub.requests, 2)
}
