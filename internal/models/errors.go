package models

import "errors"

// Error taxonomy shared across the store, the player and the HTTP layer.
// Handlers map these to status codes with errors.Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateVote  = errors.New("already voted for this song")
	ErrDuplicateSong  = errors.New("song already in queue")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrNotHost        = errors.New("only the room host can control playback")
	ErrInvalidVote    = errors.New("vote value must be +1 or -1")
	ErrVolumeRange    = errors.New("volume must be between 0 and 100")
	ErrEmptyQueue     = errors.New("no songs in queue")
	ErrNoDevice       = errors.New("no active playback device")
	ErrNoSpotifyAuth  = errors.New("host not connected to spotify")
)
