package player

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ayushshah21/EchoVote/internal/models"
	"github.com/ayushshah21/EchoVote/internal/wshub"
)

// DefaultPollInterval is how often a tracked room's playback is polled.
const DefaultPollInterval = 3 * time.Second

type handle struct {
	cancel context.CancelFunc
}

// Tracker runs one playback-advance loop per tracked room. Each loop
// polls the provider on a fixed interval and, when the host's track has
// ended, claims the queue head, plays it and broadcasts now_playing.
type Tracker struct {
	mu    sync.Mutex
	rooms map[string]*handle

	store    Store
	provider Provider
	hub      Broadcaster
	interval time.Duration
}

func NewTracker(store Store, provider Provider, hub Broadcaster, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Tracker{
		rooms:    make(map[string]*handle),
		store:    store,
		provider: provider,
		hub:      hub,
		interval: interval,
	}
}

// Start begins tracking a room. Idempotent: a room that is already
// tracked keeps its existing timer.
func (t *Tracker) Start(roomID, hostToken string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rooms[roomID]; ok {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.rooms[roomID] = &handle{cancel: cancel}
	go t.run(ctx, roomID, hostToken)
	log.Printf("[Player] tracking room %s", roomID)
}

// Stop cancels a room's timer. After Stop returns no further ticks fire;
// an in-flight tick may still complete. No-op for untracked rooms.
func (t *Tracker) Stop(roomID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, ok := t.rooms[roomID]
	if !ok {
		return
	}
	h.cancel()
	delete(t.rooms, roomID)
	log.Printf("[Player] stopped tracking room %s", roomID)
}

// Tracking reports whether a room currently has an active loop.
func (t *Tracker) Tracking(roomID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.rooms[roomID]
	return ok
}

func (t *Tracker) run(ctx context.Context, roomID, hostToken string) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.tick(ctx, roomID, hostToken)
		}
	}
}

// tick swallows every failure: a bad poll never terminates the loop.
func (t *Tracker) tick(ctx context.Context, roomID, hostToken string) {
	playback, err := t.provider.CurrentPlayback(ctx, hostToken)
	if err != nil {
		log.Printf("[Player] playback poll for room %s: %v", roomID, err)
		return
	}

	// Not playing with zero progress means the track just ended.
	if playback.IsPlaying || playback.ProgressMs != 0 {
		return
	}

	if _, err := t.Advance(ctx, roomID, hostToken); err != nil && !isIdleAdvance(err) {
		log.Printf("[Player] advance for room %s: %v", roomID, err)
	}
}

// Advance claims the queue head, starts it on the host's active device
// and broadcasts now_playing. Shared by the automatic loop and manual
// skip, so both trigger sources follow the same consistency path. The
// claim is conditional in the store: when a tick and a skip race, only
// one of them gets the song, the other sees ErrEmptyQueue.
func (t *Tracker) Advance(ctx context.Context, roomID, hostToken string) (*models.Song, error) {
	if _, err := t.store.NextSong(roomID); err != nil {
		return nil, err
	}

	devices, err := t.provider.Devices(ctx, hostToken)
	if err != nil {
		return nil, err
	}
	var device *models.Device
	for i := range devices {
		if devices[i].IsActive {
			device = &devices[i]
			break
		}
	}
	if device == nil {
		return nil, models.ErrNoDevice
	}

	song, err := t.store.AdvanceQueue(roomID, time.Now())
	if err != nil {
		return nil, err
	}

	if err := t.provider.Play(ctx, hostToken, device.ID, song.SpotifyURI); err != nil {
		// The song stays claimed; clients re-sync on the next
		// now_playing.
		return nil, err
	}

	t.hub.Broadcast(roomID, wshub.ServerMessage{Type: "now_playing", Song: song})
	return song, nil
}

// isIdleAdvance reports the benign "nothing to do this tick" outcomes.
func isIdleAdvance(err error) bool {
	return errors.Is(err, models.ErrEmptyQueue) || errors.Is(err, models.ErrNoDevice)
}
