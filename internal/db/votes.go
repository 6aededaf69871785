package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayushshah21/EchoVote/internal/models"
)

// CastVote records a vote and applies it to the song's total in one
// transaction. A second vote by the same user on the same song fails
// with ErrDuplicateVote; there is no overwrite.
func (d *DB) CastVote(songID, userID string, value int) (*models.Song, error) {
	if value != 1 && value != -1 {
		return nil, models.ErrInvalidVote
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM votes WHERE song_id = $1 AND user_id = $2)
	`, songID, userID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking vote: %w", err)
	}
	if exists {
		return nil, models.ErrDuplicateVote
	}

	var s models.Song
	err = tx.QueryRow(`
		UPDATE songs SET total_votes = total_votes + $1
		WHERE id = $2
		RETURNING `+songColumns+`
	`, value, songID).Scan(&s.ID, &s.RoomID, &s.Title, &s.Artist, &s.SpotifyURI, &s.AddedBy, &s.TotalVotes, &s.LastPlayed, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("applying vote: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO votes (id, song_id, user_id, value, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New().String(), songID, userID, value, time.Now())
	if isUniqueViolation(err) {
		// Lost a race with a concurrent vote by the same user; the
		// rollback undoes the increment.
		return nil, models.ErrDuplicateVote
	}
	if isForeignKeyViolation(err) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("inserting vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing vote: %w", err)
	}
	return &s, nil
}

// VoteCount reports how many vote records exist for a song.
func (d *DB) VoteCount(songID string) (int, error) {
	var n int
	err := d.conn.QueryRow(`
		SELECT COUNT(*) FROM votes WHERE song_id = $1
	`, songID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting votes: %w", err)
	}
	return n, nil
}
