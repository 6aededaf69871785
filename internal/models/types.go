package models

import "time"

// User is a registered participant. The Spotify token is only set for
// users who connected their account; it is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	SpotifyToken *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Room is a collaborative listening session. The host is the playback
// authority; rooms are closed (is_active = false), never deleted.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	HostID    string    `json:"host_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomSummary is the listing view of an active room.
type RoomSummary struct {
	Room
	HostName     string `json:"host_name"`
	Participants int    `json:"participants"`
}

// Song is a queued track. LastPlayed is nil while the song is still in
// the queue; a timestamp marks it as played and historical.
type Song struct {
	ID         string     `json:"id"`
	RoomID     string     `json:"room_id"`
	Title      string     `json:"title"`
	Artist     string     `json:"artist"`
	SpotifyURI string     `json:"spotify_uri"`
	AddedBy    string     `json:"added_by"`
	TotalVotes int        `json:"total_votes"`
	LastPlayed *time.Time `json:"last_played,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Vote is immutable once cast. At most one exists per (song, user).
type Vote struct {
	ID        string    `json:"id"`
	SongID    string    `json:"song_id"`
	UserID    string    `json:"user_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// Device is a playback output reported by the provider.
type Device struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// PlaybackState is the provider's polled view of the host's playback.
type PlaybackState struct {
	IsPlaying  bool `json:"is_playing"`
	ProgressMs int  `json:"progress_ms"`
}

// Track is a simplified provider search result.
type Track struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	DurationMs int    `json:"duration"`
	SpotifyURI string `json:"spotify_uri"`
	AlbumArt   string `json:"album_art,omitempty"`
}
