package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"heroworld/internal/engine"
	"heroworld/internal/security"
	"heroworld/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return false
	}
	return true
}

// respondWithDomainError maps service and engine errors to HTTP statuses.
// Navigation errors are conflicts so the client can disable the control.
func respondWithDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrPlayerNotFound),
		errors.Is(err, engine.ErrUnknownGame):
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, engine.ErrInvalidDifficulty),
		errors.Is(err, engine.ErrInvalidLevel),
		errors.Is(err, engine.ErrInvalidMove),
		errors.Is(err, service.ErrUnknownCharacter),
		errors.Is(err, service.ErrInvalidLanguage),
		errors.Is(err, service.ErrInvalidPhrase),
		errors.Is(err, security.ErrInvalidPIN):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	case errors.Is(err, engine.ErrLevelLocked),
		errors.Is(err, engine.ErrWrongState),
		errors.Is(err, engine.ErrWrongGame),
		errors.Is(err, engine.ErrInputDisabled),
		errors.Is(err, engine.ErrPicksIncomplete),
		errors.Is(err, service.ErrPINNotSet):
		respondWithError(w, http.StatusConflict, err.Error(), "", nil)
	case errors.Is(err, service.ErrWrongPIN):
		respondWithError(w, http.StatusForbidden, err.Error(), "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Request failed", err)
	}
}
