package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayushshah21/EchoVote/internal/models"
)

// handleVote casts a single immutable vote. Voting deliberately does not
// broadcast: ranking is read on demand, so rapid voting cannot cause a
// broadcast storm.
func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	songID := mux.Vars(r)["songId"]

	var req models.VoteRequest
	if err := parseJSONBody(r, &req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	song, err := s.Store.CastVote(songID, userID(r), req.Value)
	if err != nil {
		respondErr(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, song)
}
