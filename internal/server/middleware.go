package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/ayushshah21/EchoVote/internal/auth"
)

type contextKey string

const userIDKey contextKey = "userID"

// requireAuth verifies the bearer token and stores the caller's user ID
// in the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			RespondWithError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		userID, err := auth.VerifyToken(token, s.Cfg.TokenSecret)
		if err != nil {
			RespondWithError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
