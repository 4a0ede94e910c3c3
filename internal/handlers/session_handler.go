package handlers

import (
	"net/http"

	"heroworld/internal/engine"
	"heroworld/internal/service"
)

// SessionHandler drives game sessions over JSON
type SessionHandler struct {
	games *service.GameService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(games *service.GameService) *SessionHandler {
	return &SessionHandler{games: games}
}

type sessionResponse struct {
	service.SessionView
	Result *engine.Result `json:"result,omitempty"`
	Story  string         `json:"story,omitempty"`
}

// session loads the session named in the path, writing the error response on failure
func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	sess, err := h.games.Get(PlayerIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithDomainError(w, err)
		return nil, false
	}
	return sess, true
}

func (h *SessionHandler) respond(w http.ResponseWriter, sess *service.Session, status int, res *engine.Result) {
	respondJSON(w, status, sessionResponse{SessionView: sess.View(), Result: res})
}

// Create starts a session for the game in the path
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.games.Create(r.Context(), PlayerIDFromContext(r.Context()), r.PathValue("gameId"))
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	h.respond(w, sess, http.StatusCreated, nil)
}

// Get returns the current snapshot
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if sess, ok := h.session(w, r); ok {
		h.respond(w, sess, http.StatusOK, nil)
	}
}

type difficultyRequest struct {
	Difficulty string `json:"difficulty"`
}

// Difficulty selects easy, medium or hard
func (h *SessionHandler) Difficulty(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req difficultyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := engine.ParseDifficulty(req.Difficulty)
	if err == nil {
		err = sess.Controller.SelectDifficulty(d)
	}
	h.finish(w, sess, nil, err)
}

type levelRequest struct {
	Level int `json:"level"`
}

// Level starts a round at an unlocked level
func (h *SessionHandler) Level(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req levelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.finish(w, sess, nil, sess.Controller.SelectLevel(req.Level))
}

type answerRequest struct {
	Choice string `json:"choice"`
}

// Answer evaluates a choice in a discrete game
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := sess.Controller.Answer(req.Choice)
	h.finish(w, sess, &res, err)
}

// Move applies a move on a board game
func (h *SessionHandler) Move(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req engine.Move
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := sess.Controller.Move(req)
	h.finish(w, sess, &res, err)
}

// Act sends an input to a continuous game
func (h *SessionHandler) Act(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req engine.Action
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := sess.Controller.Act(req)
	h.finish(w, sess, &res, err)
}

type pressRequest struct {
	Pad int `json:"pad"`
}

// Press taps a pad during sequence recall
func (h *SessionHandler) Press(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req pressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := sess.Controller.Press(req.Pad)
	h.finish(w, sess, &res, err)
}

type stickerRequest struct {
	Sticker string `json:"sticker"`
}

// Sticker toggles a story sticker
func (h *SessionHandler) Sticker(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req stickerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.finish(w, sess, nil, sess.Controller.TogglePick(req.Sticker))
}

// Story asks the text service for a story from the picked stickers
func (h *SessionHandler) Story(w http.ResponseWriter, r *http.Request) {
	playerID := PlayerIDFromContext(r.Context())
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	text, err := h.games.Compose(r.Context(), playerID, sess.ID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{SessionView: sess.View(), Story: text})
}

// Finish ends a drawing round
func (h *SessionHandler) Finish(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	res, err := sess.Controller.Finish()
	h.finish(w, sess, &res, err)
}

// Back unwinds one navigation step
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.finish(w, sess, nil, sess.Controller.Back())
}

// Delete closes the session
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.games.Close(PlayerIDFromContext(r.Context()), r.PathValue("id")); err != nil {
		respondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) finish(w http.ResponseWriter, sess *service.Session, res *engine.Result, err error) {
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	h.respond(w, sess, http.StatusOK, res)
}
