package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter builds the API surface. Paths mirror the client contract:
// auth, rooms, songs, votes and player control, plus the realtime
// websocket endpoint.
func NewRouter(s *Server) http.Handler {
	r := mux.NewRouter().StrictSlash(true)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", s.handleRegister).Methods("POST")
	api.HandleFunc("/auth/login", s.handleLogin).Methods("POST")
	api.HandleFunc("/auth/spotify/save-tokens", s.requireAuth(s.handleSaveSpotifyToken)).Methods("POST")

	api.HandleFunc("/rooms", s.requireAuth(s.handleCreateRoom)).Methods("POST")
	api.HandleFunc("/rooms", s.requireAuth(s.handleListRooms)).Methods("GET")
	api.HandleFunc("/rooms/{roomId}/join", s.requireAuth(s.handleJoinRoom)).Methods("POST")
	api.HandleFunc("/rooms/{roomId}/leave", s.requireAuth(s.handleLeaveRoom)).Methods("POST")
	api.HandleFunc("/rooms/{roomId}/close", s.requireAuth(s.handleCloseRoom)).Methods("POST")

	api.HandleFunc("/songs/rooms/{roomId}/search", s.requireAuth(s.handleSearchSongs)).Methods("GET")
	api.HandleFunc("/songs/rooms/{roomId}/songs", s.requireAuth(s.handleAddSong)).Methods("POST")
	api.HandleFunc("/songs/rooms/{roomId}/queue", s.requireAuth(s.handleGetQueue)).Methods("GET")

	api.HandleFunc("/votes/songs/{songId}/vote", s.requireAuth(s.handleVote)).Methods("POST")

	api.HandleFunc("/player/rooms/{roomId}/play-next", s.requireAuth(s.handlePlayNext)).Methods("POST")
	api.HandleFunc("/player/rooms/{roomId}/now-playing", s.requireAuth(s.handleNowPlaying)).Methods("GET")
	api.HandleFunc("/player/rooms/{roomId}/playback", s.requireAuth(s.handlePlayback)).Methods("POST")
	api.HandleFunc("/player/rooms/{roomId}/skip", s.requireAuth(s.handleSkip)).Methods("POST")
	api.HandleFunc("/player/rooms/{roomId}/volume", s.requireAuth(s.handleSetVolume)).Methods("POST")

	r.HandleFunc("/ws", s.handleWS)
	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: s.Cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(r)
}
