// Package sessionclient is the typed boundary to the hub server's session
// API. It owns no session state beyond a short-lived read cache: every
// mutation is a server round-trip and the authoritative result is whatever
// the server returns. No retries are performed silently; a failed call
// surfaces its error to the caller, who decides whether to retry.
package sessionclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mentorhub/mentorhub/internal/common/httpclient"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/pkg/api"
)

// readCacheTTL bounds how long list/get responses are served from memory
// before a fresh fetch. Any write invalidates the cache immediately.
const readCacheTTL = 3 * time.Minute

// Client wraps the HTTP client with the session API's request and response
// contracts.
type Client struct {
	http  *httpclient.HTTPClient
	cache *readCache
}

// New builds a session client from the given configuration.
func New(config httpclient.Configurator) *Client {
	return &Client{
		http:  httpclient.NewClient(config),
		cache: newReadCache(readCacheTTL),
	}
}

// ListOptions narrows a session listing.
type ListOptions struct {
	Status string
	Limit  int
	Offset int
}

// Create books a new session and invalidates the read cache.
func (c *Client) Create(ctx context.Context, req *api.CreateSessionRequest) (*api.Session, error) {
	body, marshalErr := json.Marshal(req)
	if marshalErr != nil {
		return nil, fmt.Errorf("encoding create request: %w", marshalErr)
	}
	rsp, _, err := c.http.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodPost,
		Path:   "/sessions",
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	c.cache.invalidate()
	return decodeSession(rsp)
}

// List returns a page of the caller's sessions. Responses are served from
// the read cache while fresh.
func (c *Client) List(ctx context.Context, opts ListOptions) (*api.ListSessionsResponse, error) {
	key := "list:" + opts.Status + ":" + strconv.Itoa(opts.Limit) + ":" + strconv.Itoa(opts.Offset)
	if cached, ok := c.cache.get(key); ok {
		return cached.(*api.ListSessionsResponse), nil
	}

	params := map[string]string{}
	if opts.Status != "" {
		params["status"] = opts.Status
	}
	if opts.Limit > 0 {
		params["limit"] = strconv.Itoa(opts.Limit)
	}
	if opts.Offset > 0 {
		params["offset"] = strconv.Itoa(opts.Offset)
	}
	rsp, _, err := c.http.DoRequest(ctx, httpclient.RequestOptions{
		Method:      http.MethodGet,
		Path:        "/sessions",
		QueryParams: params,
	})
	if err != nil {
		return nil, err
	}
	page := &api.ListSessionsResponse{}
	if err := json.Unmarshal(rsp, page); err != nil {
		return nil, fmt.Errorf("decoding session list: %w", err)
	}
	c.cache.put(key, page)
	return page, nil
}

// Get fetches one session, served from the read cache while fresh.
func (c *Client) Get(ctx context.Context, sessionID uuid.UUID) (*api.Session, error) {
	key := "get:" + sessionID.String()
	if cached, ok := c.cache.get(key); ok {
		return cached.(*api.Session), nil
	}
	rsp, _, err := c.http.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodGet,
		Path:   "/sessions/" + sessionID.String(),
	})
	if err != nil {
		return nil, err
	}
	session, decodeErr := decodeSession(rsp)
	if decodeErr != nil {
		return nil, decodeErr
	}
	c.cache.put(key, session)
	return session, nil
}

// Confirm asks the server to confirm a pending session (mentor only).
func (c *Client) Confirm(ctx context.Context, sessionID uuid.UUID) (*api.Session, error) {
	return c.postTransition(ctx, sessionID, "confirm", nil)
}

// Cancel asks the server to cancel a session. The actor and resulting
// status are asserted server-side.
func (c *Client) Cancel(ctx context.Context, sessionID uuid.UUID, reason string) (*api.Session, error) {
	body, marshalErr := json.Marshal(&api.CancelSessionRequest{Reason: reason})
	if marshalErr != nil {
		return nil, fmt.Errorf("encoding cancel request: %w", marshalErr)
	}
	return c.postTransition(ctx, sessionID, "cancel", body)
}

// Reschedule moves a session to a new start time.
func (c *Client) Reschedule(ctx context.Context, sessionID uuid.UUID, newStart time.Time) (*api.Session, error) {
	body, marshalErr := json.Marshal(&api.RescheduleSessionRequest{ScheduledAt: newStart})
	if marshalErr != nil {
		return nil, fmt.Errorf("encoding reschedule request: %w", marshalErr)
	}
	return c.postTransition(ctx, sessionID, "reschedule", body)
}

// Complete submits the mentor-supplied outcome and moves the session to
// COMPLETED.
func (c *Client) Complete(ctx context.Context, sessionID uuid.UUID, outcome *api.CompleteSessionRequest) (*api.Session, error) {
	body, marshalErr := json.Marshal(outcome)
	if marshalErr != nil {
		return nil, fmt.Errorf("encoding completion: %w", marshalErr)
	}
	return c.postTransition(ctx, sessionID, "complete", body)
}

// MarkNoShow reports the counterpart absent after the scheduled start.
func (c *Client) MarkNoShow(ctx context.Context, sessionID uuid.UUID) (*api.Session, error) {
	return c.postTransition(ctx, sessionID, "no-show", nil)
}

// CreateMeetingRoom resolves the session's live room reference, gated by
// the server's join window.
func (c *Client) CreateMeetingRoom(ctx context.Context, sessionID uuid.UUID) (*api.MeetingRoomResponse, error) {
	rsp, _, err := c.http.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodGet,
		Path:   "/sessions/" + sessionID.String() + "/meeting/room",
	})
	if err != nil {
		return nil, err
	}
	room := &api.MeetingRoomResponse{}
	if err := json.Unmarshal(rsp, room); err != nil {
		return nil, fmt.Errorf("decoding room response: %w", err)
	}
	return room, nil
}

// GetMeetingToken fetches a short-lived per-user room access token. The
// first token against a confirmed session moves it to IN_PROGRESS, so the
// read cache is invalidated.
func (c *Client) GetMeetingToken(ctx context.Context, sessionID uuid.UUID) (*api.MeetingTokenResponse, error) {
	rsp, _, err := c.http.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodPost,
		Path:   "/sessions/" + sessionID.String() + "/meeting/token",
	})
	if err != nil {
		return nil, err
	}
	c.cache.invalidate()
	token := &api.MeetingTokenResponse{}
	if err := json.Unmarshal(rsp, token); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	return token, nil
}

// Slots fetches the bookable slots for a mentor over a date range. Slots
// are derived server-side and never cached: availability changes and fresh
// bookings must show through immediately.
func (c *Client) Slots(ctx context.Context, mentorID uuid.UUID, from, to time.Time, durationMinutes int, displayTZ string) ([]api.BookingSlot, error) {
	rsp, _, err := c.http.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodGet,
		Path:   "/mentors/" + mentorID.String() + "/slots",
		QueryParams: map[string]string{
			"from":     from.Format("2006-01-02"),
			"to":       to.Format("2006-01-02"),
			"duration": strconv.Itoa(durationMinutes),
			"tz":       displayTZ,
		},
	})
	if err != nil {
		return nil, err
	}
	slots := &api.ListSlotsResponse{}
	if err := json.Unmarshal(rsp, slots); err != nil {
		return nil, fmt.Errorf("decoding slots: %w", err)
	}
	return slots.Slots, nil
}

// GetAvailability fetches a mentor's published weekly availability.
func (c *Client) GetAvailability(ctx context.Context, mentorID uuid.UUID) (*api.WeeklyAvailability, error) {
	rsp, _, err := c.http.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodGet,
		Path:   "/mentors/" + mentorID.String() + "/availability",
	})
	if err != nil {
		return nil, err
	}
	availability := &api.WeeklyAvailability{}
	if err := json.Unmarshal(rsp, availability); err != nil {
		return nil, fmt.Errorf("decoding availability: %w", err)
	}
	return availability, nil
}

// PutAvailability replaces the caller's weekly availability (mentor only).
func (c *Client) PutAvailability(ctx context.Context, mentorID uuid.UUID, availability api.WeeklyAvailability) (*api.WeeklyAvailability, error) {
	body, marshalErr := json.Marshal(&api.PutAvailabilityRequest{Availability: availability})
	if marshalErr != nil {
		return nil, fmt.Errorf("encoding availability: %w", marshalErr)
	}
	rsp, _, err := c.http.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodPut,
		Path:   "/mentors/" + mentorID.String() + "/availability",
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	out := &api.WeeklyAvailability{}
	if err := json.Unmarshal(rsp, out); err != nil {
		return nil, fmt.Errorf("decoding availability: %w", err)
	}
	return out, nil
}

func (c *Client) postTransition(ctx context.Context, sessionID uuid.UUID, action string, body []byte) (*api.Session, error) {
	rsp, _, err := c.http.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodPost,
		Path:   "/sessions/" + sessionID.String() + "/" + action,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	c.cache.invalidate()
	return decodeSession(rsp)
}

func decodeSession(body []byte) (*api.Session, error) {
	session := &api.Session{}
	if err := json.Unmarshal(body, session); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return session, nil
}
