package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nathanieltooley/pokeduel/duel"
	"github.com/nathanieltooley/pokeduel/storage"
)

var ErrBadRequest = errors.New("bad request")

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, duel.ErrUnknownCombatant), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, duel.ErrSelfBattle), errors.Is(err, duel.ErrNoStats), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		requestLogger(r).Err(err).Msg("request failed")
		message = "internal server error"
	}

	writeJSON(w, status, ErrorResponse{Error: message})
}
