// Package meeting coordinates the live side of a session: room references,
// short-lived per-user access tokens, and the websocket signaling hub that
// carries roster and chat traffic for a room.
package meeting

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/mentorhub/mentorhub/internal/common/apperrors"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/internal/hubsrv/config"
)

// Role distinguishes the two sides of a lesson inside a room.
type Role string

const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
)

// TokenClaims are the claims carried by a meeting access token.
type TokenClaims struct {
	SessionID uuid.UUID `json:"session_id"`
	Room      string    `json:"room"`
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	jwt.RegisteredClaims
}

// NewRoomRef mints a room reference URL for a session. One room per
// session; callers must reuse an existing reference instead of minting a
// second one.
func NewRoomRef(sessionID uuid.UUID) string {
	base := config.Config().Meeting.RoomBaseURL
	if base == "" {
		base = "mentorhub://rooms"
	}
	return base + "/" + sessionID.String() + "-" + uuid.New().String()[:8]
}

// CreateToken issues a short-lived HS256 token admitting userID to room.
// The token expires at expiresAt, which callers derive from the session's
// join window so a token never outlives the room.
func CreateToken(ctx context.Context, sessionID uuid.UUID, room string, userID uuid.UUID, role Role, expiresAt time.Time) (string, apperrors.Error) {
	now := time.Now()
	claims := &TokenClaims{
		SessionID: sessionID,
		Room:      room,
		UserID:    userID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "mentorhub-hubsrv",
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Config().Meeting.TokenSigningSecret))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to sign meeting token")
		return "", ErrUnableToCreate.Err(err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a meeting token and checks it admits
// the bearer to the given room. An empty room skips the room match, for
// callers that derive the room from the token itself.
func ValidateToken(tokenString string, room string) (*TokenClaims, apperrors.Error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken.Msg("unexpected signing method")
		}
		return []byte(config.Config().Meeting.TokenSigningSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
			return nil, ErrTokenExpired.Err(err)
		}
		return nil, ErrInvalidToken.Err(err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if room != "" && claims.Room != room {
		return nil, ErrRoomMismatch
	}
	return claims, nil
}
