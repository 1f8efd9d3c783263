package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mentorhub/mentorhub/internal/common/httpx"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/internal/hubsrv/hubcommon"
)

// Router wires the session and mentor endpoints. Every route requires the
// caller's identity header; the user-context middleware rejects requests
// that lack it.
func Router(mgr *Manager) chi.Router {
	h := &handler{mgr: mgr}

	sessionHandlers := []httpx.ResponseHandlerParam{
		{Method: http.MethodPost, Path: "/", Handler: h.createSession},
		{Method: http.MethodGet, Path: "/", Handler: h.listSessions},
		{Method: http.MethodGet, Path: "/{sessionID}", Handler: h.getSession},
		{Method: http.MethodPost, Path: "/{sessionID}/confirm", Handler: h.confirmSession},
		{Method: http.MethodPost, Path: "/{sessionID}/cancel", Handler: h.cancelSession},
		{Method: http.MethodPost, Path: "/{sessionID}/reschedule", Handler: h.rescheduleSession},
		{Method: http.MethodPost, Path: "/{sessionID}/complete", Handler: h.completeSession},
		{Method: http.MethodPost, Path: "/{sessionID}/no-show", Handler: h.markNoShow},
		{Method: http.MethodGet, Path: "/{sessionID}/meeting/room", Handler: h.getMeetingRoom},
		{Method: http.MethodPost, Path: "/{sessionID}/meeting/token", Handler: h.getMeetingToken},
	}

	r := chi.NewRouter()
	r.Use(userContextMiddleware)
	for _, handler := range sessionHandlers {
		r.Method(handler.Method, handler.Path, httpx.WrapHttpRsp(handler.Handler))
	}
	return r
}

// MentorRouter wires the mentor-scoped endpoints: slot listing for the
// booking flow and the weekly availability document.
func MentorRouter(mgr *Manager) chi.Router {
	h := &handler{mgr: mgr}

	mentorHandlers := []httpx.ResponseHandlerParam{
		{Method: http.MethodGet, Path: "/{mentorID}/slots", Handler: h.listSlots},
		{Method: http.MethodGet, Path: "/{mentorID}/availability", Handler: h.getAvailability},
		{Method: http.MethodPut, Path: "/{mentorID}/availability", Handler: h.putAvailability},
	}

	r := chi.NewRouter()
	r.Use(userContextMiddleware)
	for _, handler := range mentorHandlers {
		r.Method(handler.Method, handler.Path, httpx.WrapHttpRsp(handler.Handler))
	}
	return r
}

// userContextMiddleware resolves the caller's identity from the identity
// header and stores it in the request context.
func userContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		raw := r.Header.Get(hubcommon.UserIDHeader)
		if raw == "" {
			log.Ctx(ctx).Debug().Msg("missing user identity header")
			httpx.ErrUnAuthorized("caller identity is required").Send(w)
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil {
			log.Ctx(ctx).Debug().Str("user_id", raw).Msg("malformed user identity header")
			httpx.ErrUnAuthorized("invalid caller identity").Send(w)
			return
		}

		ctx = hubcommon.WithUserContext(ctx, &hubcommon.UserContext{UserID: userID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
