package server

import (
	"net/http"

	"github.com/jonathan/sitevision/internal/server/middleware"
	"github.com/jonathan/sitevision/internal/types"
)

// handleGetMe returns the authenticated user's profile.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, &UnauthorizedError{})
		return
	}

	user, err := s.userService.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// handleUpdatePassword changes the authenticated user's password.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, &UnauthorizedError{})
		return
	}

	s.authHandler.UpdatePassword(w, r, userID)
}

// handleAdminListUsers lists all registered users. Admin only.
func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	users, err := s.userService.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"count": len(users),
	})
}

// requireAdmin writes a 403 and returns false unless the caller holds
// the admin role.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if middleware.GetRole(r) != types.RoleAdmin {
		writeError(w, &ForbiddenError{Message: "admin access required"})
		return false
	}
	return true
}

// isAdmin reports whether the request carries the admin role.
func (s *Server) isAdmin(r *http.Request) bool {
	return middleware.GetRole(r) == types.RoleAdmin
}
