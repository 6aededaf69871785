package server

import (
	"log"
	"net/http"

	"github.com/ayushshah21/EchoVote/internal/auth"
	"github.com/ayushshah21/EchoVote/internal/models"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := parseJSONBody(r, &req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Email == "" || req.Name == "" || len(req.Password) < 8 {
		RespondWithError(w, http.StatusBadRequest, "email, name and a password of at least 8 characters are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("[Auth] hashing password: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user, err := s.Store.CreateUser(req.Email, req.Name, hash)
	if err != nil {
		respondErr(w, err)
		return
	}

	RespondWithJSON(w, http.StatusCreated, models.AuthResponse{
		Token: auth.SignToken(user.ID, s.Cfg.TokenSecret),
		User:  user,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := parseJSONBody(r, &req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := s.Store.UserByEmail(req.Email)
	if err != nil {
		// Same answer for unknown email and wrong password.
		RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	RespondWithJSON(w, http.StatusOK, models.AuthResponse{
		Token: auth.SignToken(user.ID, s.Cfg.TokenSecret),
		User:  user,
	})
}

func (s *Server) handleSaveSpotifyToken(w http.ResponseWriter, r *http.Request) {
	var req models.SaveSpotifyTokenRequest
	if err := parseJSONBody(r, &req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.AccessToken == "" {
		RespondWithError(w, http.StatusBadRequest, "access_token is required")
		return
	}
	if err := s.Store.SaveSpotifyToken(userID(r), req.AccessToken); err != nil {
		respondErr(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"message": "spotify account connected"})
}
