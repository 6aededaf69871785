package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayushshah21/EchoVote/internal/models"
)

func (s *Server) handleAddSong(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	var req models.AddSongRequest
	if err := parseJSONBody(r, &req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.SpotifyURI == "" || req.Title == "" {
		RespondWithError(w, http.StatusBadRequest, "spotify_uri and title are required")
		return
	}

	song, err := s.Store.AddSong(roomID, req.Title, req.Artist, req.SpotifyURI, userID(r))
	if err != nil {
		respondErr(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, song)
}

func (s *Server) handleGetQueue(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	songs, err := s.Store.Queue(roomID)
	if err != nil {
		respondErr(w, err)
		return
	}
	if songs == nil {
		songs = []models.Song{}
	}
	RespondWithJSON(w, http.StatusOK, songs)
}

// handleSearchSongs searches the provider catalog using the room host's
// credential, so any participant can search.
func (s *Server) handleSearchSongs(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	query := r.URL.Query().Get("query")
	if query == "" {
		RespondWithError(w, http.StatusBadRequest, "query is required")
		return
	}

	token, err := s.Store.HostToken(roomID)
	if err != nil {
		respondErr(w, err)
		return
	}
	tracks, err := s.Search.Search(r.Context(), token, query)
	if err != nil {
		respondErr(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, tracks)
}
