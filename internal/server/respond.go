package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayushshah21/EchoVote/internal/auth"
	"github.com/ayushshah21/EchoVote/internal/models"
)

func RespondWithJSON(w http.ResponseWriter, statusCode int, v any) {
	payload, _ := json.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(payload)
}

func RespondWithError(w http.ResponseWriter, statusCode int, reason string) {
	RespondWithJSON(w, statusCode, models.ErrorResponse{Error: reason})
}

// respondErr maps the domain error taxonomy onto HTTP status codes.
func respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrEmptyQueue):
		RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrDuplicateVote),
		errors.Is(err, models.ErrDuplicateSong),
		errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrInvalidVote),
		errors.Is(err, models.ErrVolumeRange),
		errors.Is(err, models.ErrNoDevice):
		RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotHost),
		errors.Is(err, models.ErrNoSpotifyAuth):
		RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		RespondWithError(w, http.StatusUnauthorized, err.Error())
	default:
		RespondWithError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
