package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"heroworld/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const PlayerContextKey ContextKey = "player"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens *security.TokenIssuer
	csrf   *security.CSRFGenerator
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokens *security.TokenIssuer, csrf *security.CSRFGenerator) *Middleware {
	return &Middleware{tokens: tokens, csrf: csrf}
}

// RequirePlayer accepts a bearer token or the player cookie. Cookie
// authenticated requests that change state must carry the CSRF header.
func (m *Middleware) RequirePlayer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, fromCookie := bearerToken(r), false
		if token == "" {
			cookie, err := r.Cookie(security.PlayerCookieName)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
				return
			}
			token, fromCookie = cookie.Value, true
		}

		playerID, err := m.tokens.Verify(token)
		if err != nil {
			if fromCookie {
				http.SetCookie(w, security.CreateDeleteCookie(r))
			}
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}

		if fromCookie && !safeMethod(r.Method) && !m.csrf.Valid(playerID, r.Header.Get(security.CSRFHeader)) {
			respondWithError(w, http.StatusForbidden, ErrForbidden, "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), PlayerContextKey, playerID)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects a player's requests beyond the limiter's rate
func RateLimit(limiter *security.RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := PlayerIDFromContext(r.Context())
		if key == "" {
			key = security.GetClientIP(r)
		}
		if !limiter.Allow(key) {
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// PlayerIDFromContext retrieves the authenticated player from the request context
func PlayerIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(PlayerContextKey).(string)
	return id
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func safeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}
