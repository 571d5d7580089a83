// internal/httpserver/token.go
//
// Session tokens.
// Responsibilities:
//   - Sign an HS256 JWT binding a client to one game ID.
//   - Deliver it as an HttpOnly cookie and in the JSON body.
//   - Read it back from "Authorization: Bearer", the cookie, or ?token=
//     (browsers cannot set headers on websocket upgrades).
//   - requireSession middleware: verify token, match it to {id}, load the
//     session into the request context.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/tilewords/internal/store"
)

// sessionClaims ties a token to a single game.
type sessionClaims struct {
	GameID string `json:"gid"`
	jwt.RegisteredClaims
}

type contextKey string

var sessionCtxKey = contextKey("session")

// signSessionToken issues a token for gameID valid until exp.
func (s *Server) signSessionToken(gameID string, now, exp time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	return token.SignedString([]byte(s.cfg.TokenSecret))
}

// parseSessionToken verifies tokenStr and returns the game ID it grants.
func (s *Server) parseSessionToken(tokenStr string) (string, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.TokenSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.clock.Now() }),
	)
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.GameID == "" {
		return "", errors.New("invalid token")
	}
	return claims.GameID, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

// sessionToken finds the token on r.
func (s *Server) sessionToken(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// requireSession admits requests whose token grants the {id} in the path.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := s.sessionToken(r)
		if tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		gid, err := s.parseSessionToken(tokenStr)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		if gid != chi.URLParam(r, "id") {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		sess, err := s.store.Get(r.Context(), gid)
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		ctx := context.WithValue(r.Context(), sessionCtxKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentSession returns the session loaded by requireSession.
func currentSession(r *http.Request) *store.Session {
	sess, _ := r.Context().Value(sessionCtxKey).(*store.Session)
	return sess
}
