package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"heroworld/internal/models"
	"heroworld/internal/security"
	"heroworld/internal/service"
	"heroworld/internal/story"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
	maxPlayerName       = 40
)

// PlayerHandler serves the lobby side: players, catalog and progress
type PlayerHandler struct {
	progress *service.ProgressService
	games    *service.GameService
	tokens   *security.TokenIssuer
	csrf     *security.CSRFGenerator
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(progress *service.ProgressService, games *service.GameService, tokens *security.TokenIssuer, csrf *security.CSRFGenerator) *PlayerHandler {
	return &PlayerHandler{
		progress: progress,
		games:    games,
		tokens:   tokens,
		csrf:     csrf,
	}
}

type createPlayerRequest struct {
	Name string `json:"name"`
}

type createPlayerResponse struct {
	Player    *models.Player  `json:"player"`
	Token     string          `json:"token"`
	CSRFToken string          `json:"csrfToken"`
	Progress  models.Progress `json:"progress"`
}

// CreatePlayer registers a player and hands out its token
func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if len([]rune(name)) > maxPlayerName {
		respondWithError(w, http.StatusBadRequest, "Name is too long", "", nil)
		return
	}

	player, err := h.progress.CreatePlayer(r.Context(), name)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to create player", err)
		return
	}

	token, expires, err := h.tokens.Issue(player.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to issue token", err)
		return
	}
	http.SetCookie(w, security.CreatePlayerCookie(r, token, expires))

	respondJSON(w, http.StatusCreated, createPlayerResponse{
		Player:    player,
		Token:     token,
		CSRFToken: h.csrf.Token(player.ID),
		Progress:  h.progress.Progress(r.Context(), player.ID),
	})
}

type catalogResponse struct {
	Characters  []models.Character  `json:"characters"`
	Games       []models.GameInfo   `json:"games"`
	Soundtracks []models.Soundtrack `json:"soundtracks"`
}

// Catalog lists heroes, games and soundtracks
func (h *PlayerHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	c := h.progress.Catalog()
	respondJSON(w, http.StatusOK, catalogResponse{
		Characters:  c.Characters,
		Games:       c.Games,
		Soundtracks: c.Soundtracks,
	})
}

// NextSoundtrack returns the track after ?current=, wrapping around
func (h *PlayerHandler) NextSoundtrack(w http.ResponseWriter, r *http.Request) {
	track, ok := h.progress.Catalog().NextSoundtrack(r.URL.Query().Get("current"))
	if !ok {
		respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
		return
	}
	respondJSON(w, http.StatusOK, track)
}

// Translations returns every UI string for a language
func (h *PlayerHandler) Translations(w http.ResponseWriter, r *http.Request) {
	lang := models.Language(r.PathValue("lang"))
	if !lang.Valid() {
		respondWithDomainError(w, service.ErrInvalidLanguage)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"language": lang,
		"rtl":      lang.RTL(),
		"strings":  h.progress.Catalog().TranslationsFor(lang),
	})
}

type progressResponse struct {
	Progress  models.Progress     `json:"progress"`
	Character models.Character    `json:"character"`
	Lobby     []models.LobbyEntry `json:"lobby"`
	CSRFToken string              `json:"csrfToken"`
}

func (h *PlayerHandler) progressView(r *http.Request, playerID string, p models.Progress) progressResponse {
	return progressResponse{
		Progress:  p,
		Character: h.progress.Character(r.Context(), playerID),
		Lobby:     h.progress.Lobby(r.Context(), playerID),
		CSRFToken: h.csrf.Token(playerID),
	}
}

// Progress returns the player's progress with the lobby rows
func (h *PlayerHandler) Progress(w http.ResponseWriter, r *http.Request) {
	playerID := PlayerIDFromContext(r.Context())
	p := h.progress.Progress(r.Context(), playerID)
	respondJSON(w, http.StatusOK, h.progressView(r, playerID, p))
}

type heroRequest struct {
	CharacterID string `json:"characterId"`
}

// SelectHero stores the chosen character
func (h *PlayerHandler) SelectHero(w http.ResponseWriter, r *http.Request) {
	var req heroRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	playerID := PlayerIDFromContext(r.Context())
	p, err := h.progress.SelectHero(r.Context(), playerID, req.CharacterID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.progressView(r, playerID, p))
}

type languageRequest struct {
	Language string `json:"language"`
}

// SetLanguage stores the UI language. An empty body toggles it.
func (h *PlayerHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	playerID := PlayerIDFromContext(r.Context())

	if req.Language == "" {
		p := h.progress.ToggleLanguage(r.Context(), playerID)
		respondJSON(w, http.StatusOK, h.progressView(r, playerID, p))
		return
	}

	p, err := h.progress.SetLanguage(r.Context(), playerID, models.Language(req.Language))
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.progressView(r, playerID, p))
}

type resetRequest struct {
	PIN string `json:"pin"`
}

// Reset wipes the player's progress behind the parent PIN
func (h *PlayerHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := security.ValidatePIN(req.PIN); err != nil {
		respondWithDomainError(w, err)
		return
	}

	playerID := PlayerIDFromContext(r.Context())
	if err := h.progress.Reset(r.Context(), playerID, req.PIN); err != nil {
		respondWithDomainError(w, err)
		return
	}
	p := h.progress.Progress(r.Context(), playerID)
	respondJSON(w, http.StatusOK, h.progressView(r, playerID, p))
}

// History lists the player's completed sessions, newest first
func (h *PlayerHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", "", nil)
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	results, err := h.progress.History(r.Context(), PlayerIDFromContext(r.Context()), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load history", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// Phrase returns a motivational line naming the player's hero
func (h *PlayerHandler) Phrase(w http.ResponseWriter, r *http.Request) {
	kind := story.PhraseKind(r.PathValue("kind"))
	text, err := h.games.Phrase(r.Context(), PlayerIDFromContext(r.Context()), kind)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"kind": string(kind), "text": text})
}
