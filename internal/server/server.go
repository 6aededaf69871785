package server

import (
	"context"
	"log"

	"github.com/ayushshah21/EchoVote/internal/config"
	"github.com/ayushshah21/EchoVote/internal/events"
	"github.com/ayushshah21/EchoVote/internal/models"
	"github.com/ayushshah21/EchoVote/internal/player"
	"github.com/ayushshah21/EchoVote/internal/wshub"
)

// Store is the persistence surface the handlers use. *db.DB satisfies it.
type Store interface {
	CreateUser(email, name, passwordHash string) (*models.User, error)
	UserByEmail(email string) (*models.User, error)
	UserByID(id string) (*models.User, error)
	SaveSpotifyToken(userID, token string) error
	HostToken(roomID string) (string, error)

	CreateRoom(name, hostID string) (*models.Room, error)
	RoomByID(id string) (*models.Room, error)
	ActiveRooms() ([]models.RoomSummary, error)
	JoinRoom(roomID, userID string) error
	LeaveRoom(roomID, userID string) error
	CloseRoom(roomID string) error

	AddSong(roomID, title, artist, spotifyURI, addedBy string) (*models.Song, error)
	Queue(roomID string) ([]models.Song, error)
	CastVote(songID, userID string, value int) (*models.Song, error)
}

// TrackSearcher searches the provider's catalog. *spotify.Client
// satisfies it.
type TrackSearcher interface {
	Search(ctx context.Context, token, query string) ([]models.Track, error)
}

type Server struct {
	Store   Store
	Hub     *wshub.Hub
	Tracker *player.Tracker
	Gateway *player.Gateway
	Search  TrackSearcher
	Cfg     config.Config
}

// WatchMembership consumes hub membership events and manages playback
// tracking: a host joining a room with a connected Spotify account
// starts the room's advance loop, a host disconnect stops it.
func (s *Server) WatchMembership(ctx context.Context, bus *events.Bus) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-bus.Joins:
			room, err := s.Store.RoomByID(ev.RoomID)
			if err != nil || room.HostID != ev.UserID {
				continue
			}
			token, err := s.Store.HostToken(ev.RoomID)
			if err != nil {
				log.Printf("[Server] host joined room %s without spotify credential", ev.RoomID)
				continue
			}
			s.Tracker.Start(ev.RoomID, token)
		case ev := <-bus.Disconnects:
			room, err := s.Store.RoomByID(ev.RoomID)
			if err == nil && room.HostID == ev.UserID {
				s.Tracker.Stop(ev.RoomID)
			}
		}
	}
}
