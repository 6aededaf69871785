package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayushshah21/EchoVote/internal/models"
)

func (s *Server) handlePlayNext(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	song, err := s.Gateway.PlayNext(r.Context(), roomID, userID(r))
	if err != nil {
		respondErr(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, models.PlaySongResponse{Message: "playing next song", Song: song})
}

func (s *Server) handleNowPlaying(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	state, err := s.Gateway.NowPlaying(r.Context(), roomID)
	if err != nil {
		respondErr(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, state)
}

func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	var req models.PlaybackRequest
	if err := parseJSONBody(r, &req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var err error
	switch req.Action {
	case "pause":
		err = s.Gateway.Pause(r.Context(), roomID, userID(r))
	case "resume":
		err = s.Gateway.Resume(r.Context(), roomID, userID(r))
	default:
		RespondWithError(w, http.StatusBadRequest, "action must be pause or resume")
		return
	}
	if err != nil {
		respondErr(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"message": "playback " + req.Action + "d"})
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	song, err := s.Gateway.Skip(r.Context(), roomID, userID(r))
	if err != nil {
		respondErr(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, models.PlaySongResponse{Message: "skipped to next song", Song: song})
}

func (s *Server) handleSetVolume(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	var req models.VolumeRequest
	if err := parseJSONBody(r, &req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := s.Gateway.SetVolume(r.Context(), roomID, userID(r), req.Volume); err != nil {
		respondErr(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]any{"message": "volume updated", "volume": req.Volume})
}
