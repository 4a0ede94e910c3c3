package handlers

import (
	"net/http"

	"heroworld/internal/security"
)

// NewRouter registers every API route
func NewRouter(players *PlayerHandler, sessions *SessionHandler, middleware *Middleware, storyLimiter *security.RateLimiter) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequirePlayer

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public routes
	mux.HandleFunc("POST /api/players", players.CreatePlayer)
	mux.HandleFunc("GET /api/catalog", players.Catalog)
	mux.HandleFunc("GET /api/translations/{lang}", players.Translations)
	mux.HandleFunc("GET /api/soundtracks/next", players.NextSoundtrack)

	// Progress routes
	mux.HandleFunc("GET /api/progress", auth(players.Progress))
	mux.HandleFunc("GET /api/progress/history", auth(players.History))
	mux.HandleFunc("POST /api/progress/hero", auth(players.SelectHero))
	mux.HandleFunc("POST /api/progress/language", auth(players.SetLanguage))
	mux.HandleFunc("POST /api/progress/reset", auth(players.Reset))
	mux.HandleFunc("GET /api/phrases/{kind}", auth(RateLimit(storyLimiter, players.Phrase)))

	// Session routes
	mux.HandleFunc("POST /api/games/{gameId}/sessions", auth(sessions.Create))
	mux.HandleFunc("GET /api/sessions/{id}", auth(sessions.Get))
	mux.HandleFunc("DELETE /api/sessions/{id}", auth(sessions.Delete))
	mux.HandleFunc("POST /api/sessions/{id}/difficulty", auth(sessions.Difficulty))
	mux.HandleFunc("POST /api/sessions/{id}/level", auth(sessions.Level))
	mux.HandleFunc("POST /api/sessions/{id}/answer", auth(sessions.Answer))
	mux.HandleFunc("POST /api/sessions/{id}/move", auth(sessions.Move))
	mux.HandleFunc("POST /api/sessions/{id}/act", auth(sessions.Act))
	mux.HandleFunc("POST /api/sessions/{id}/press", auth(sessions.Press))
	mux.HandleFunc("POST /api/sessions/{id}/stickers", auth(sessions.Sticker))
	mux.HandleFunc("POST /api/sessions/{id}/story", auth(RateLimit(storyLimiter, sessions.Story)))
	mux.HandleFunc("POST /api/sessions/{id}/finish", auth(sessions.Finish))
	mux.HandleFunc("POST /api/sessions/{id}/back", auth(sessions.Back))
	mux.HandleFunc("GET /api/sessions/{id}/stream", auth(sessions.Stream))

	return mux
}
