package session

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mentorhub/mentorhub/internal/common/httpx"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/internal/hubsrv/hubcommon"
	"github.com/mentorhub/mentorhub/pkg/api"
	"github.com/mentorhub/mentorhub/pkg/types"
)

type handler struct {
	mgr *Manager
}

func (h *handler) createSession(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	req := &api.CreateSessionRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	session, err := h.mgr.Create(ctx, hubcommon.GetUserID(ctx), req)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   "/sessions/" + session.ID.String(),
		Response:   session,
	}, nil
}

func (h *handler) getSession(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	sessionID, err := sessionIDParam(r)
	if err != nil {
		return nil, err
	}
	session, err2 := h.mgr.Get(ctx, hubcommon.GetUserID(ctx), sessionID)
	if err2 != nil {
		return nil, err2
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: session}, nil
}

func (h *handler) listSessions(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	filter := ListFilter{}
	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		filter.Status = types.SessionStatus(v)
	}
	if v := q.Get("limit"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 0 {
			return nil, ErrInvalidRequest.Msg("invalid limit")
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 0 {
			return nil, ErrInvalidRequest.Msg("invalid offset")
		}
		filter.Offset = n
	}

	page, err := h.mgr.List(ctx, hubcommon.GetUserID(ctx), filter)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: page}, nil
}

func (h *handler) confirmSession(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	sessionID, err := sessionIDParam(r)
	if err != nil {
		return nil, err
	}
	session, err2 := h.mgr.Confirm(ctx, hubcommon.GetUserID(ctx), sessionID)
	if err2 != nil {
		return nil, err2
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: session}, nil
}

func (h *handler) cancelSession(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	sessionID, err := sessionIDParam(r)
	if err != nil {
		return nil, err
	}
	req := &api.CancelSessionRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	session, err2 := h.mgr.Cancel(ctx, hubcommon.GetUserID(ctx), sessionID, req)
	if err2 != nil {
		return nil, err2
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: session}, nil
}

func (h *handler) rescheduleSession(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	sessionID, err := sessionIDParam(r)
	if err != nil {
		return nil, err
	}
	req := &api.RescheduleSessionRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	session, err2 := h.mgr.Reschedule(ctx, hubcommon.GetUserID(ctx), sessionID, req)
	if err2 != nil {
		return nil, err2
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: session}, nil
}

func (h *handler) completeSession(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	sessionID, err := sessionIDParam(r)
	if err != nil {
		return nil, err
	}
	req := &api.CompleteSessionRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	session, err2 := h.mgr.Complete(ctx, hubcommon.GetUserID(ctx), sessionID, req)
	if err2 != nil {
		return nil, err2
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: session}, nil
}

func (h *handler) markNoShow(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	sessionID, err := sessionIDParam(r)
	if err != nil {
		return nil, err
	}
	session, err2 := h.mgr.MarkNoShow(ctx, hubcommon.GetUserID(ctx), sessionID)
	if err2 != nil {
		return nil, err2
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: session}, nil
}

func (h *handler) getMeetingRoom(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	sessionID, err := sessionIDParam(r)
	if err != nil {
		return nil, err
	}
	room, err2 := h.mgr.Room(ctx, hubcommon.GetUserID(ctx), sessionID)
	if err2 != nil {
		return nil, err2
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: room}, nil
}

func (h *handler) getMeetingToken(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	sessionID, err := sessionIDParam(r)
	if err != nil {
		return nil, err
	}
	token, err2 := h.mgr.Token(ctx, hubcommon.GetUserID(ctx), sessionID)
	if err2 != nil {
		return nil, err2
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: token}, nil
}

// listSlots serves the booking flow: the bookable slots for a mentor over a
// date range, computed on demand and never stored.
func (h *handler) listSlots(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	mentorID, err := mentorIDParam(r)
	if err != nil {
		return nil, err
	}

	q := r.URL.Query()
	durationMinutes, convErr := strconv.Atoi(q.Get("duration"))
	if convErr != nil {
		return nil, ErrInvalidRequest.Msg("duration is required")
	}
	displayTZ := q.Get("tz")
	if displayTZ == "" {
		displayTZ = "UTC"
	}
	from, convErr := time.Parse("2006-01-02", q.Get("from"))
	if convErr != nil {
		return nil, ErrInvalidRequest.Msg("from date is required as YYYY-MM-DD")
	}
	to, convErr := time.Parse("2006-01-02", q.Get("to"))
	if convErr != nil {
		return nil, ErrInvalidRequest.Msg("to date is required as YYYY-MM-DD")
	}

	slots, err2 := h.mgr.Slots(ctx, mentorID, from, to, durationMinutes, displayTZ)
	if err2 != nil {
		return nil, err2
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: slots}, nil
}

func (h *handler) putAvailability(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	mentorID, err := mentorIDParam(r)
	if err != nil {
		return nil, err
	}
	req := &api.PutAvailabilityRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	availability, err2 := h.mgr.PutAvailability(ctx, hubcommon.GetUserID(ctx), mentorID, req)
	if err2 != nil {
		return nil, err2
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: availability}, nil
}

func (h *handler) getAvailability(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	mentorID, err := mentorIDParam(r)
	if err != nil {
		return nil, err
	}
	availability, err2 := h.mgr.GetAvailability(ctx, mentorID)
	if err2 != nil {
		return nil, err2
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: availability}, nil
}

func sessionIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		return uuid.Nil, ErrInvalidRequest.Msg("invalid session ID")
	}
	return id, nil
}

func mentorIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "mentorID"))
	if err != nil {
		return uuid.Nil, ErrInvalidRequest.Msg("invalid mentor ID")
	}
	return id, nil
}
