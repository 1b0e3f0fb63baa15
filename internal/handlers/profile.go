package handlers

import (
	"net/http"

	"freelance-rate-engine/internal/models"
	"freelance-rate-engine/internal/services/database"
)

// ProfileHandler serves the authenticated user's profile.
type ProfileHandler struct {
	users *database.UserRepository
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(users *database.UserRepository) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// Get returns the caller's profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	profile, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, profile)
}

// Update applies a partial patch to the caller's profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var patch models.ProfileUpdate
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&patch); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.users.UpdateProfile(r.Context(), userID, &patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, profile)
}
