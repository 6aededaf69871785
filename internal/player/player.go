package player

import (
	"context"
	"time"

	"github.com/ayushshah21/EchoVote/internal/models"
	"github.com/ayushshah21/EchoVote/internal/wshub"
)

// Store is the slice of persistence the player needs. *db.DB satisfies it.
type Store interface {
	RoomByID(id string) (*models.Room, error)
	HostToken(roomID string) (string, error)
	NextSong(roomID string) (*models.Song, error)
	AdvanceQueue(roomID string, playedAt time.Time) (*models.Song, error)
}

// Provider is the external playback service, scoped by the host's opaque
// credential on every call. *spotify.Client satisfies it.
type Provider interface {
	CurrentPlayback(ctx context.Context, token string) (*models.PlaybackState, error)
	Devices(ctx context.Context, token string) ([]models.Device, error)
	Play(ctx context.Context, token, deviceID, uri string) error
	Pause(ctx context.Context, token string) error
	Resume(ctx context.Context, token string) error
	SkipNext(ctx context.Context, token string) error
	SetVolume(ctx context.Context, token string, volume int) error
}

// Broadcaster fans an event out to a room. *wshub.Hub satisfies it.
type Broadcaster interface {
	Broadcast(roomID string, msg wshub.ServerMessage)
}
