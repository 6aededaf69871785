package models

// Request types

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SaveSpotifyTokenRequest struct {
	AccessToken string `json:"access_token"`
}

type CreateRoomRequest struct {
	Name string `json:"name"`
}

type AddSongRequest struct {
	SpotifyURI string `json:"spotify_uri"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
}

type VoteRequest struct {
	Value int `json:"value"`
}

type PlaybackRequest struct {
	Action string `json:"action"`
}

type VolumeRequest struct {
	Volume int `json:"volume"`
}

// Response types

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type PlaySongResponse struct {
	Message string `json:"message"`
	Song    *Song  `json:"song"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
