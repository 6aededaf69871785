package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayushshah21/EchoVote/internal/models"
)

const songColumns = "id, room_id, title, artist, spotify_uri, added_by, total_votes, last_played, created_at"

// AddSong queues a track. A track that is already queued and unplayed in
// the room is rejected; a previously played one may be queued again.
func (d *DB) AddSong(roomID, title, artist, spotifyURI, addedBy string) (*models.Song, error) {
	var exists bool
	err := d.conn.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM songs
			WHERE room_id = $1 AND spotify_uri = $2 AND last_played IS NULL
		)
	`, roomID, spotifyURI).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking queue: %w", err)
	}
	if exists {
		return nil, models.ErrDuplicateSong
	}

	song := &models.Song{
		ID:         uuid.New().String(),
		RoomID:     roomID,
		Title:      title,
		Artist:     artist,
		SpotifyURI: spotifyURI,
		AddedBy:    addedBy,
		CreatedAt:  time.Now(),
	}
	_, err = d.conn.Exec(`
		INSERT INTO songs (id, room_id, title, artist, spotify_uri, added_by, total_votes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
	`, song.ID, song.RoomID, song.Title, song.Artist, song.SpotifyURI, song.AddedBy, song.CreatedAt)
	if isForeignKeyViolation(err) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("adding song: %w", err)
	}
	return song, nil
}

// Queue lists a room's unplayed songs in play order: votes descending,
// ties broken by earliest creation.
func (d *DB) Queue(roomID string) ([]models.Song, error) {
	rows, err := d.conn.Query(`
		SELECT `+songColumns+` FROM songs
		WHERE room_id = $1 AND last_played IS NULL
		ORDER BY total_votes DESC, created_at ASC
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("querying queue: %w", err)
	}
	defer rows.Close()

	var songs []models.Song
	for rows.Next() {
		var s models.Song
		if err := scanSong(rows.Scan, &s); err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

// NextSong returns the queue head without consuming it.
func (d *DB) NextSong(roomID string) (*models.Song, error) {
	var s models.Song
	err := scanSong(d.conn.QueryRow(`
		SELECT `+songColumns+` FROM songs
		WHERE room_id = $1 AND last_played IS NULL
		ORDER BY total_votes DESC, created_at ASC
		LIMIT 1
	`, roomID).Scan, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AdvanceQueue claims the queue head: it marks the current head played
// and returns it. The mark is a single conditional update, so two
// concurrent advances for the same room can never claim the same song.
func (d *DB) AdvanceQueue(roomID string, playedAt time.Time) (*models.Song, error) {
	var s models.Song
	err := scanSong(d.conn.QueryRow(`
		UPDATE songs SET last_played = $1
		WHERE id = (
			SELECT id FROM songs
			WHERE room_id = $2 AND last_played IS NULL
			ORDER BY total_votes DESC, created_at ASC
			LIMIT 1
		) AND last_played IS NULL
		RETURNING `+songColumns+`
	`, playedAt, roomID).Scan, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSong(scan func(...any) error, s *models.Song) error {
	err := scan(&s.ID, &s.RoomID, &s.Title, &s.Artist, &s.SpotifyURI, &s.AddedBy, &s.TotalVotes, &s.LastPlayed, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrEmptyQueue
	}
	if err != nil {
		return fmt.Errorf("scanning song: %w", err)
	}
	return nil
}
