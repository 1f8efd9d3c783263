package meeting

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mentorhub/mentorhub/internal/common/httpx"
)

// Router serves the live-meeting websocket endpoint. Admission is by
// meeting token only; there is no separate auth middleware because the
// token itself carries the room and the bearer's identity.
func Router(hub *Hub) chi.Router {
	r := chi.NewRouter()
	r.Get("/ws", joinRoom(hub))
	return r
}

func joinRoom(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			httpx.ErrUnAuthorized("missing meeting token").Send(w)
			return
		}

		claims, err := ValidateToken(tokenString, "")
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).Msg("meeting token rejected")
			httpx.ErrUnAuthorized(err.Error()).Send(w)
			return
		}

		displayName := r.URL.Query().Get("name")
		if displayName == "" {
			displayName = claims.UserID.String()
		}

		if err := hub.Join(w, r, claims, displayName); err != nil {
			if err == ErrRoomClosed {
				httpx.SendError(w, err)
				return
			}
			// upgrade failures have already written a response
			log.Ctx(ctx).Error().Err(err).Str("room", claims.Room).Msg("meeting join failed")
		}
	}
}
