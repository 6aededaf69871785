package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayushshah21/EchoVote/internal/models"
)

func (d *DB) CreateUser(email, name, passwordHash string) (*models.User, error) {
	u := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	_, err := d.conn.Exec(`
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt)
	if isUniqueViolation(err) {
		return nil, models.ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

func (d *DB) UserByEmail(email string) (*models.User, error) {
	return d.scanUser(d.conn.QueryRow(`
		SELECT id, email, name, password_hash, spotify_token, created_at
		FROM users WHERE email = $1
	`, email))
}

func (d *DB) UserByID(id string) (*models.User, error) {
	return d.scanUser(d.conn.QueryRow(`
		SELECT id, email, name, password_hash, spotify_token, created_at
		FROM users WHERE id = $1
	`, id))
}

func (d *DB) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.SpotifyToken, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

// SaveSpotifyToken stores the host's provider credential. The token is
// opaque to everything but the provider client.
func (d *DB) SaveSpotifyToken(userID, token string) error {
	res, err := d.conn.Exec(`
		UPDATE users SET spotify_token = $1 WHERE id = $2
	`, token, userID)
	if err != nil {
		return fmt.Errorf("saving spotify token: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// HostToken returns the provider credential of a room's host.
func (d *DB) HostToken(roomID string) (string, error) {
	var token sql.NullString
	err := d.conn.QueryRow(`
		SELECT u.spotify_token FROM rooms r
		JOIN users u ON u.id = r.host_id
		WHERE r.id = $1
	`, roomID).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying host token: %w", err)
	}
	if !token.Valid || token.String == "" {
		return "", models.ErrNoSpotifyAuth
	}
	return token.String, nil
}
