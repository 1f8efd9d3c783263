// Package server assembles the MentorHub hub server: middleware stack,
// resource routers, and the health and version endpoints.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/mentorhub/mentorhub/internal/common/httpx"
	commonmiddleware "github.com/mentorhub/mentorhub/internal/common/middleware"
	"github.com/mentorhub/mentorhub/internal/hubsrv/config"
	"github.com/mentorhub/mentorhub/internal/hubsrv/db"
	"github.com/mentorhub/mentorhub/internal/hubsrv/hubcommon"
	"github.com/mentorhub/mentorhub/internal/hubsrv/meeting"
	"github.com/mentorhub/mentorhub/internal/hubsrv/session"
)

// HubServer is the assembled HTTP server.
type HubServer struct {
	Router *chi.Mux
	store  db.Store
	hub    *meeting.Hub
	mgr    *session.Manager
}

// CreateNewServer builds the server around an already-connected store.
func CreateNewServer(store db.Store) *HubServer {
	s := &HubServer{
		Router: chi.NewRouter(),
		store:  store,
		hub:    meeting.NewHub(),
	}
	s.mgr = session.NewManager(store, s.hub)
	return s
}

// MountHandlers installs the middleware stack and resource routers.
func (s *HubServer) MountHandlers() {
	s.Router.Use(commonmiddleware.RequestLogger)
	s.Router.Use(commonmiddleware.PanicHandler)
	if timeout, err := config.Config().Server.GetRequestTimeout(); err == nil && timeout > 0 {
		s.Router.Use(commonmiddleware.SetTimeout(timeout))
	}
	if config.Config().Server.HandleCORS {
		s.Router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", hubcommon.UserIDHeader},
			MaxAge:         300,
		}))
	}

	s.Router.Mount("/sessions", session.Router(s.mgr))
	s.Router.Mount("/mentors", session.MentorRouter(s.mgr))
	s.Router.Mount("/meetings", meeting.Router(s.hub))
	s.Router.Get("/version", s.getVersion)
	s.Router.Get("/ready", s.getReadiness)
}

type GetVersionRsp struct {
	ServerVersion string `json:"serverVersion"`
	ApiVersion    string `json:"apiVersion"`
}

func (s *HubServer) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	rsp := &GetVersionRsp{
		ServerVersion: "MentorHub Hub Server: " + hubcommon.ServerVersion,
		ApiVersion:    hubcommon.ApiVersion,
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, rsp)
}

func (s *HubServer) getReadiness(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("readiness check")

	if err := s.store.Ping(r.Context()); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("database unreachable during readiness check")
		httpx.SendJsonRsp(r.Context(), w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "database connection failed",
		})
		return
	}

	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
