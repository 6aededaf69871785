package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayushshah21/EchoVote/internal/models"
)

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if err := parseJSONBody(r, &req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.Name) < 3 || len(req.Name) > 50 {
		RespondWithError(w, http.StatusBadRequest, "room name must be 3-50 characters")
		return
	}

	room, err := s.Store.CreateRoom(req.Name, userID(r))
	if err != nil {
		respondErr(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, room)
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.Store.ActiveRooms()
	if err != nil {
		respondErr(w, err)
		return
	}
	if rooms == nil {
		rooms = []models.RoomSummary{}
	}
	RespondWithJSON(w, http.StatusOK, rooms)
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	if err := s.Store.JoinRoom(roomID, userID(r)); err != nil {
		respondErr(w, err)
		return
	}
	room, err := s.Store.RoomByID(roomID)
	if err != nil {
		respondErr(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, room)
}

func (s *Server) handleLeaveRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	if err := s.Store.LeaveRoom(roomID, userID(r)); err != nil {
		respondErr(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"message": "left room"})
}

// handleCloseRoom deactivates a room and releases its tracking handle.
// Host only.
func (s *Server) handleCloseRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	room, err := s.Store.RoomByID(roomID)
	if err != nil {
		respondErr(w, err)
		return
	}
	if room.HostID != userID(r) {
		respondErr(w, models.ErrNotHost)
		return
	}
	if err := s.Store.CloseRoom(roomID); err != nil {
		respondErr(w, err)
		return
	}
	s.Tracker.Stop(roomID)
	RespondWithJSON(w, http.StatusOK, map[string]string{"message": "room closed"})
}
