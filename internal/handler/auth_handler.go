package handler

import (
	"net/http"
)

// AuthHandler reports on the session used for the label routes
type AuthHandler struct{}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type sessionResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ValidateToken returns the user behind the request's token. It only runs
// behind the auth middleware.
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{ID: user.ID, Email: user.Email})
}
