package handlers

import (
	"errors"
	"net/http"

	"freelance-rate-engine/internal/models"
	"freelance-rate-engine/internal/services/auth"
	"freelance-rate-engine/internal/services/database"
)

// AuthHandler serves registration, login and identity endpoints.
type AuthHandler struct {
	users *database.UserRepository
	auth  *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users *database.UserRepository, authSvc *auth.Service) *AuthHandler {
	return &AuthHandler{users: users, auth: authSvc}
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new freelancer account and returns a token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&req); err != nil {
		writeError(w, err)
		return
	}

	hash, err := h.auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), req.Email, hash)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "account created",
		Data:    authResponse{Token: token, User: user},
	})
}

// Login verifies credentials and returns a fresh token. Unknown emails
// and wrong passwords produce the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, models.ErrUserNotFound) {
		writeError(w, models.ErrInvalidCredentials)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.auth.CheckPassword(req.Password, user.PasswordHash) {
		writeError(w, models.ErrInvalidCredentials)
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, authResponse{Token: token, User: user})
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}
