// Package server provides the HTTP REST API for the inspection report service.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/sitevision/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		validator:   validator.New(),
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &ValidationError{Field: "body", Message: "invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(w, asValidationError(err))
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		writeError(w, &InternalError{Cause: err})
		return
	}

	writeJSON(w, http.StatusCreated, types.LoginResponse{
		User:  user,
		Token: token,
	})
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &ValidationError{Field: "body", Message: "invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(w, asValidationError(err))
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		writeError(w, &InternalError{Cause: err})
		return
	}

	writeJSON(w, http.StatusOK, types.LoginResponse{
		User:  user,
		Token: token,
	})
}

// UpdatePassword handles password update requests for the given user.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req types.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &ValidationError{Field: "body", Message: "invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(w, asValidationError(err))
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Password updated successfully",
	})
}

// asValidationError converts validator errors into the API's typed form.
func asValidationError(err error) *ValidationError {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		// Report the first failing field only
		ve := validationErrors[0]
		return &ValidationError{Field: ve.Field(), Message: ve.Tag()}
	}
	return &ValidationError{Field: "request", Message: "invalid"}
}
