package events

// RoomEvent identifies a user action inside a room.
type RoomEvent struct {
	RoomID string
	UserID string
}

// Bus carries hub membership events to interested listeners (the player
// tracker). Publishing is non-blocking; a full channel drops the event.
type Bus struct {
	Joins       chan RoomEvent
	Disconnects chan RoomEvent
}

func NewBus() *Bus {
	return &Bus{
		Joins:       make(chan RoomEvent, 16),
		Disconnects: make(chan RoomEvent, 16),
	}
}
