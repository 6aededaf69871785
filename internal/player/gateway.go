package player

import (
	"context"
	"fmt"

	"github.com/ayushshah21/EchoVote/internal/models"
	"github.com/ayushshah21/EchoVote/internal/wshub"
)

// Gateway translates host control actions into provider calls and
// broadcasts the result. Every action is restricted to the room's host.
type Gateway struct {
	store    Store
	provider Provider
	hub      Broadcaster
	tracker  *Tracker
}

func NewGateway(store Store, provider Provider, hub Broadcaster, tracker *Tracker) *Gateway {
	return &Gateway{store: store, provider: provider, hub: hub, tracker: tracker}
}

// authorize checks that userID is the room's host and returns the host's
// provider credential. No provider call happens before this passes.
func (g *Gateway) authorize(roomID, userID string) (string, error) {
	room, err := g.store.RoomByID(roomID)
	if err != nil {
		return "", err
	}
	if room.HostID != userID {
		return "", models.ErrNotHost
	}
	return g.store.HostToken(roomID)
}

func (g *Gateway) Pause(ctx context.Context, roomID, userID string) error {
	token, err := g.authorize(roomID, userID)
	if err != nil {
		return err
	}
	if err := g.provider.Pause(ctx, token); err != nil {
		return fmt.Errorf("pausing playback: %w", err)
	}
	g.hub.Broadcast(roomID, wshub.ServerMessage{Type: "playback_update", Status: "pause"})
	return nil
}

func (g *Gateway) Resume(ctx context.Context, roomID, userID string) error {
	token, err := g.authorize(roomID, userID)
	if err != nil {
		return err
	}
	if err := g.provider.Resume(ctx, token); err != nil {
		return fmt.Errorf("resuming playback: %w", err)
	}
	g.hub.Broadcast(roomID, wshub.ServerMessage{Type: "playback_update", Status: "resume"})
	return nil
}

// SetVolume validates the range before any provider call is made.
func (g *Gateway) SetVolume(ctx context.Context, roomID, userID string, volume int) error {
	if volume < 0 || volume > 100 {
		return models.ErrVolumeRange
	}
	token, err := g.authorize(roomID, userID)
	if err != nil {
		return err
	}
	if err := g.provider.SetVolume(ctx, token, volume); err != nil {
		return fmt.Errorf("setting volume: %w", err)
	}
	g.hub.Broadcast(roomID, wshub.ServerMessage{Type: "volume_changed", Volume: volume})
	return nil
}

// Skip tells the provider to skip the current track and immediately
// advances the queue instead of waiting for the next tick.
func (g *Gateway) Skip(ctx context.Context, roomID, userID string) (*models.Song, error) {
	token, err := g.authorize(roomID, userID)
	if err != nil {
		return nil, err
	}
	if err := g.provider.SkipNext(ctx, token); err != nil {
		return nil, fmt.Errorf("skipping track: %w", err)
	}
	return g.tracker.Advance(ctx, roomID, token)
}

// PlayNext advances the queue on explicit host request.
func (g *Gateway) PlayNext(ctx context.Context, roomID, userID string) (*models.Song, error) {
	token, err := g.authorize(roomID, userID)
	if err != nil {
		return nil, err
	}
	return g.tracker.Advance(ctx, roomID, token)
}

// NowPlaying reports the provider's current playback state for a room.
// Any participant may read it.
func (g *Gateway) NowPlaying(ctx context.Context, roomID string) (*models.PlaybackState, error) {
	token, err := g.store.HostToken(roomID)
	if err != nil {
		return nil, err
	}
	state, err := g.provider.CurrentPlayback(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("reading playback state: %w", err)
	}
	return state, nil
}
