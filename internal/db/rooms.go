package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayushshah21/EchoVote/internal/models"
)

// CreateRoom creates an active room and joins the host as its first
// participant in one transaction.
func (d *DB) CreateRoom(name, hostID string) (*models.Room, error) {
	room := &models.Room{
		ID:        uuid.New().String(),
		Name:      name,
		HostID:    hostID,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO rooms (id, name, host_id, is_active, created_at)
		VALUES ($1, $2, $3, TRUE, $4)
	`, room.ID, room.Name, room.HostID, room.CreatedAt)
	if isForeignKeyViolation(err) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("creating room: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO room_participants (room_id, user_id, joined_at)
		VALUES ($1, $2, $3)
	`, room.ID, room.HostID, room.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("joining host to room: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing room: %w", err)
	}
	return room, nil
}

func (d *DB) RoomByID(id string) (*models.Room, error) {
	var r models.Room
	err := d.conn.QueryRow(`
		SELECT id, name, host_id, is_active, created_at
		FROM rooms WHERE id = $1
	`, id).Scan(&r.ID, &r.Name, &r.HostID, &r.IsActive, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying room: %w", err)
	}
	return &r, nil
}

func (d *DB) ActiveRooms() ([]models.RoomSummary, error) {
	rows, err := d.conn.Query(`
		SELECT r.id, r.name, r.host_id, r.is_active, r.created_at, u.name,
		       (SELECT COUNT(*) FROM room_participants p WHERE p.room_id = r.id)
		FROM rooms r
		JOIN users u ON u.id = r.host_id
		WHERE r.is_active = TRUE
		ORDER BY r.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer rows.Close()

	var list []models.RoomSummary
	for rows.Next() {
		var s models.RoomSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.HostID, &s.IsActive, &s.CreatedAt, &s.HostName, &s.Participants); err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (d *DB) JoinRoom(roomID, userID string) error {
	room, err := d.RoomByID(roomID)
	if err != nil {
		return err
	}
	if !room.IsActive {
		return models.ErrNotFound
	}
	_, err = d.conn.Exec(`
		INSERT INTO room_participants (room_id, user_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (room_id, user_id) DO NOTHING
	`, roomID, userID, time.Now())
	if isForeignKeyViolation(err) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("joining room: %w", err)
	}
	return nil
}

func (d *DB) LeaveRoom(roomID, userID string) error {
	_, err := d.conn.Exec(`
		DELETE FROM room_participants WHERE room_id = $1 AND user_id = $2
	`, roomID, userID)
	if err != nil {
		return fmt.Errorf("leaving room: %w", err)
	}
	return nil
}

// CloseRoom marks a room inactive. The row and its songs stay for history.
func (d *DB) CloseRoom(roomID string) error {
	res, err := d.conn.Exec(`
		UPDATE rooms SET is_active = FALSE WHERE id = $1
	`, roomID)
	if err != nil {
		return fmt.Errorf("closing room: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}
