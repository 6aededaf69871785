package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayushshah21/EchoVote/internal/auth"
	"github.com/ayushshah21/EchoVote/internal/config"
	"github.com/ayushshah21/EchoVote/internal/models"
	"github.com/ayushshah21/EchoVote/internal/player"
	"github.com/ayushshah21/EchoVote/internal/wshub"
)

const testSecret = "test-secret"

// fakeStore is an in-memory Store. It also satisfies player.Store so the
// same instance backs the tracker and gateway.
type fakeStore struct {
	users map[string]*models.User // by email
	rooms map[string]*models.Room
	songs map[string]*models.Song
	votes map[string]bool // songID+userID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[string]*models.User),
		rooms: make(map[string]*models.Room),
		songs: make(map[string]*models.Song),
		votes: make(map[string]bool),
	}
}

func (f *fakeStore) CreateUser(email, name, passwordHash string) (*models.User, error) {
	if _, ok := f.users[email]; ok {
		return nil, models.ErrDuplicateEmail
	}
	u := &models.User{ID: "user-" + name, Email: email, Name: name, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.users[email] = u
	return u, nil
}

func (f *fakeStore) UserByEmail(email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) UserByID(id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeStore) SaveSpotifyToken(userID, token string) error {
	u, err := f.UserByID(userID)
	if err != nil {
		return err
	}
	u.SpotifyToken = &token
	return nil
}

func (f *fakeStore) HostToken(roomID string) (string, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return "", models.ErrNotFound
	}
	host, err := f.UserByID(room.HostID)
	if err != nil || host.SpotifyToken == nil {
		return "", models.ErrNoSpotifyAuth
	}
	return *host.SpotifyToken, nil
}

func (f *fakeStore) CreateRoom(name, hostID string) (*models.Room, error) {
	r := &models.Room{ID: fmt.Sprintf("room-%d", len(f.rooms)+1), Name: name, HostID: hostID, IsActive: true, CreatedAt: time.Now()}
	f.rooms[r.ID] = r
	return r, nil
}

func (f *fakeStore) RoomByID(id string) (*models.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return r, nil
}

func (f *fakeStore) ActiveRooms() ([]models.RoomSummary, error) {
	var list []models.RoomSummary
	for _, r := range f.rooms {
		if r.IsActive {
			list = append(list, models.RoomSummary{Room: *r, Participants: 1})
		}
	}
	return list, nil
}

func (f *fakeStore) JoinRoom(roomID, userID string) error {
	r, ok := f.rooms[roomID]
	if !ok || !r.IsActive {
		return models.ErrNotFound
	}
	return nil
}

func (f *fakeStore) LeaveRoom(roomID, userID string) error { return nil }

func (f *fakeStore) CloseRoom(roomID string) error {
	r, ok := f.rooms[roomID]
	if !ok {
		return models.ErrNotFound
	}
	r.IsActive = false
	return nil
}

func (f *fakeStore) AddSong(roomID, title, artist, spotifyURI, addedBy string) (*models.Song, error) {
	if _, ok := f.rooms[roomID]; !ok {
		return nil, models.ErrNotFound
	}
	for _, s := range f.songs {
		if s.RoomID == roomID && s.SpotifyURI == spotifyURI && s.LastPlayed == nil {
			return nil, models.ErrDuplicateSong
		}
	}
	s := &models.Song{ID: "song-" + spotifyURI, RoomID: roomID, Title: title, Artist: artist, SpotifyURI: spotifyURI, AddedBy: addedBy, CreatedAt: time.Now()}
	f.songs[s.ID] = s
	return s, nil
}

func (f *fakeStore) Queue(roomID string) ([]models.Song, error) {
	var songs []models.Song
	for _, s := range f.songs {
		if s.RoomID == roomID && s.LastPlayed == nil {
			songs = append(songs, *s)
		}
	}
	return songs, nil
}

func (f *fakeStore) CastVote(songID, userID string, value int) (*models.Song, error) {
	if value != 1 && value != -1 {
		return nil, models.ErrInvalidVote
	}
	s, ok := f.songs[songID]
	if !ok {
		return nil, models.ErrNotFound
	}
	key := songID + "/" + userID
	if f.votes[key] {
		return nil, models.ErrDuplicateVote
	}
	f.votes[key] = true
	s.TotalVotes += value
	return s, nil
}

func (f *fakeStore) NextSong(roomID string) (*models.Song, error) {
	for _, s := range f.songs {
		if s.RoomID == roomID && s.LastPlayed == nil {
			return s, nil
		}
	}
	return nil, models.ErrEmptyQueue
}

func (f *fakeStore) AdvanceQueue(roomID string, playedAt time.Time) (*models.Song, error) {
	s, err := f.NextSong(roomID)
	if err != nil {
		return nil, err
	}
	s.LastPlayed = &playedAt
	return s, nil
}

// noopProvider answers every playback call successfully.
type noopProvider struct{ volumeCalls int }

func (p *noopProvider) CurrentPlayback(ctx context.Context, token string) (*models.PlaybackState, error) {
	return &models.PlaybackState{}, nil
}

func (p *noopProvider) Devices(ctx context.Context, token string) ([]models.Device, error) {
	return []models.Device{{ID: "dev-1", IsActive: true}}, nil
}

func (p *noopProvider) Play(ctx context.Context, token, deviceID, uri string) error { return nil }
func (p *noopProvider) Pause(ctx context.Context, token string) error               { return nil }
func (p *noopProvider) Resume(ctx context.Context, token string) error              { return nil }
func (p *noopProvider) SkipNext(ctx context.Context, token string) error            { return nil }
func (p *noopProvider) SetVolume(ctx context.Context, token string, volume int) error {
	p.volumeCalls++
	return nil
}

type fakeSearcher struct {
	tracks []models.Track
}

func (f *fakeSearcher) Search(ctx context.Context, token, query string) ([]models.Track, error) {
	return f.tracks, nil
}

func newTestServer(store *fakeStore) (*Server, http.Handler, *noopProvider) {
	cfg := config.Config{Port: "0", TokenSecret: testSecret, AllowedOrigins: []string{"*"}}
	hub := wshub.NewHub(nil)
	provider := &noopProvider{}
	tracker := player.NewTracker(store, provider, hub, time.Hour)
	srv := &Server{
		Store:   store,
		Hub:     hub,
		Tracker: tracker,
		Gateway: player.NewGateway(store, provider, hub, tracker),
		Search:  &fakeSearcher{},
		Cfg:     cfg,
	}
	return srv, NewRouter(srv), provider
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func registerUser(t *testing.T, h http.Handler, email, name string) (string, *models.User) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Email: email, Name: name, Password: "password123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.AuthResponse
	decodeJSON(t, rec, &resp)
	return resp.Token, resp.User
}

func TestRegisterAndLogin(t *testing.T) {
	_, h, _ := newTestServer(newFakeStore())

	token, user := registerUser(t, h, "alice@example.com", "alice")
	if token == "" || user.Email != "alice@example.com" {
		t.Fatalf("bad register response: token=%q user=%+v", token, user)
	}
	// the issued token is usable
	if got, err := auth.VerifyToken(token, testSecret); err != nil || got != user.ID {
		t.Fatalf("token does not verify: %v", err)
	}

	rec := doJSON(t, h, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email: "alice@example.com", Password: "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email: "alice@example.com", Password: "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password returned %d", rec.Code)
	}
	// unknown email answers identically
	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email: "nobody@example.com", Password: "password123",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email returned %d", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	_, h, _ := newTestServer(newFakeStore())

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Email: "short@example.com", Name: "short", Password: "1234567",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("7-char password returned %d", rec.Code)
	}

	registerUser(t, h, "dup@example.com", "dup")
	rec = doJSON(t, h, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Email: "dup@example.com", Name: "again", Password: "password123",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate email returned %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, h, _ := newTestServer(newFakeStore())

	rec := doJSON(t, h, http.MethodGet, "/api/rooms", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token returned %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/rooms", "user-x.forged-signature", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged token returned %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/rooms", auth.SignToken("user-x", testSecret), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token returned %d", rec.Code)
	}
}

func TestRoomEndpoints(t *testing.T) {
	_, h, _ := newTestServer(newFakeStore())
	hostToken, _ := registerUser(t, h, "host@example.com", "host")
	guestToken, _ := registerUser(t, h, "guest@example.com", "guest")

	rec := doJSON(t, h, http.MethodPost, "/api/rooms", hostToken, models.CreateRoomRequest{Name: "ab"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("2-char room name returned %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/rooms", hostToken, models.CreateRoomRequest{Name: "Friday Night"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create room returned %d: %s", rec.Code, rec.Body.String())
	}
	var room models.Room
	decodeJSON(t, rec, &room)

	rec = doJSON(t, h, http.MethodPost, "/api/rooms/"+room.ID+"/join", guestToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("join returned %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/api/rooms/no-such-room/join", guestToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("join unknown room returned %d", rec.Code)
	}

	// only the host may close
	rec = doJSON(t, h, http.MethodPost, "/api/rooms/"+room.ID+"/close", guestToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("guest close returned %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/api/rooms/"+room.ID+"/close", hostToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("host close returned %d", rec.Code)
	}
	// a closed room rejects late joins
	rec = doJSON(t, h, http.MethodPost, "/api/rooms/"+room.ID+"/join", guestToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("join closed room returned %d", rec.Code)
	}
}

func TestSongAndVoteEndpoints(t *testing.T) {
	store := newFakeStore()
	_, h, _ := newTestServer(store)
	hostToken, _ := registerUser(t, h, "host@example.com", "host")
	guestToken, _ := registerUser(t, h, "guest@example.com", "guest")

	rec := doJSON(t, h, http.MethodPost, "/api/rooms", hostToken, models.CreateRoomRequest{Name: "Friday Night"})
	var room models.Room
	decodeJSON(t, rec, &room)

	rec = doJSON(t, h, http.MethodPost, "/api/songs/rooms/"+room.ID+"/songs", guestToken, models.AddSongRequest{
		SpotifyURI: "spotify:track:a", Title: "Song A", Artist: "Artist",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add song returned %d: %s", rec.Code, rec.Body.String())
	}
	var song models.Song
	decodeJSON(t, rec, &song)

	// same unplayed track again
	rec = doJSON(t, h, http.MethodPost, "/api/songs/rooms/"+room.ID+"/songs", guestToken, models.AddSongRequest{
		SpotifyURI: "spotify:track:a", Title: "Song A", Artist: "Artist",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate song returned %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/votes/songs/"+song.ID+"/vote", guestToken, models.VoteRequest{Value: 1})
	if rec.Code != http.StatusOK {
		t.Fatalf("vote returned %d: %s", rec.Code, rec.Body.String())
	}
	var voted models.Song
	decodeJSON(t, rec, &voted)
	if voted.TotalVotes != 1 {
		t.Fatalf("total = %d, want 1", voted.TotalVotes)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/votes/songs/"+song.ID+"/vote", guestToken, models.VoteRequest{Value: -1})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate vote returned %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/api/votes/songs/"+song.ID+"/vote", hostToken, models.VoteRequest{Value: 5})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid vote value returned %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/songs/rooms/"+room.ID+"/queue", guestToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("queue returned %d", rec.Code)
	}
	var queue []models.Song
	decodeJSON(t, rec, &queue)
	if len(queue) != 1 || queue[0].TotalVotes != 1 {
		t.Fatalf("unexpected queue: %+v", queue)
	}
}

func TestEmptyQueueIsArrayNotNull(t *testing.T) {
	_, h, _ := newTestServer(newFakeStore())
	token, _ := registerUser(t, h, "host@example.com", "host")

	rec := doJSON(t, h, http.MethodPost, "/api/rooms", token, models.CreateRoomRequest{Name: "Friday Night"})
	var room models.Room
	decodeJSON(t, rec, &room)

	rec = doJSON(t, h, http.MethodGet, "/api/songs/rooms/"+room.ID+"/queue", token, nil)
	if body := rec.Body.String(); body != "[]" {
		t.Fatalf("empty queue encoded as %q, want []", body)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/rooms", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list rooms returned %d", rec.Code)
	}
}

func TestSearchUsesHostCredential(t *testing.T) {
	store := newFakeStore()
	srv, h, _ := newTestServer(store)
	srv.Search = &fakeSearcher{tracks: []models.Track{{ID: "t1", Title: "Found"}}}
	hostToken, _ := registerUser(t, h, "host@example.com", "host")
	guestToken, _ := registerUser(t, h, "guest@example.com", "guest")

	rec := doJSON(t, h, http.MethodPost, "/api/rooms", hostToken, models.CreateRoomRequest{Name: "Friday Night"})
	var room models.Room
	decodeJSON(t, rec, &room)

	// host has no connected account yet; nobody can search
	rec = doJSON(t, h, http.MethodGet, "/api/songs/rooms/"+room.ID+"/search?query=test", guestToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("search without host credential returned %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/auth/spotify/save-tokens", hostToken, models.SaveSpotifyTokenRequest{AccessToken: "tok"})
	if rec.Code != http.StatusOK {
		t.Fatalf("save token returned %d: %s", rec.Code, rec.Body.String())
	}

	// now any participant searches through the host's credential
	rec = doJSON(t, h, http.MethodGet, "/api/songs/rooms/"+room.ID+"/search?query=test", guestToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search returned %d: %s", rec.Code, rec.Body.String())
	}
	var tracks []models.Track
	decodeJSON(t, rec, &tracks)
	if len(tracks) != 1 || tracks[0].Title != "Found" {
		t.Fatalf("unexpected tracks: %+v", tracks)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/songs/rooms/"+room.ID+"/search", guestToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing query returned %d", rec.Code)
	}
}

func TestPlayerEndpoints(t *testing.T) {
	store := newFakeStore()
	_, h, provider := newTestServer(store)
	hostToken, _ := registerUser(t, h, "host@example.com", "host")
	guestToken, _ := registerUser(t, h, "guest@example.com", "guest")

	rec := doJSON(t, h, http.MethodPost, "/api/rooms", hostToken, models.CreateRoomRequest{Name: "Friday Night"})
	var room models.Room
	decodeJSON(t, rec, &room)
	doJSON(t, h, http.MethodPost, "/api/auth/spotify/save-tokens", hostToken, models.SaveSpotifyTokenRequest{AccessToken: "tok"})

	// guests cannot control playback
	rec = doJSON(t, h, http.MethodPost, "/api/player/rooms/"+room.ID+"/playback", guestToken, models.PlaybackRequest{Action: "pause"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("guest pause returned %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/player/rooms/"+room.ID+"/playback", hostToken, models.PlaybackRequest{Action: "pause"})
	if rec.Code != http.StatusOK {
		t.Fatalf("host pause returned %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, http.MethodPost, "/api/player/rooms/"+room.ID+"/playback", hostToken, models.PlaybackRequest{Action: "eject"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown action returned %d", rec.Code)
	}

	// out-of-range volume is rejected before the provider sees it
	rec = doJSON(t, h, http.MethodPost, "/api/player/rooms/"+room.ID+"/volume", hostToken, models.VolumeRequest{Volume: 150})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("volume 150 returned %d", rec.Code)
	}
	if provider.volumeCalls != 0 {
		t.Fatalf("rejected volume reached the provider %d times", provider.volumeCalls)
	}
	rec = doJSON(t, h, http.MethodPost, "/api/player/rooms/"+room.ID+"/volume", hostToken, models.VolumeRequest{Volume: 70})
	if rec.Code != http.StatusOK {
		t.Fatalf("volume 70 returned %d: %s", rec.Code, rec.Body.String())
	}

	// nothing queued yet
	rec = doJSON(t, h, http.MethodPost, "/api/player/rooms/"+room.ID+"/play-next", hostToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("play-next on empty queue returned %d", rec.Code)
	}

	doJSON(t, h, http.MethodPost, "/api/songs/rooms/"+room.ID+"/songs", hostToken, models.AddSongRequest{
		SpotifyURI: "spotify:track:a", Title: "Song A", Artist: "Artist",
	})
	rec = doJSON(t, h, http.MethodPost, "/api/player/rooms/"+room.ID+"/play-next", hostToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("play-next returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.PlaySongResponse
	decodeJSON(t, rec, &resp)
	if resp.Song == nil || resp.Song.SpotifyURI != "spotify:track:a" {
		t.Fatalf("unexpected play-next response: %+v", resp)
	}

	// any participant may read playback state
	rec = doJSON(t, h, http.MethodGet, "/api/player/rooms/"+room.ID+"/now-playing", guestToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("now-playing returned %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, h, _ := newTestServer(newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("health returned %d", rec.Code)
	}
}
