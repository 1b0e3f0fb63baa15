package handlers

import (
	"net/http"
	"strconv"

	"freelance-rate-engine/internal/models"
	"freelance-rate-engine/internal/services/pricing"
)

const (
	defaultPageLimit  = 20
	defaultRecentSize = 50
)

// RatesHandler serves rate calculation and history endpoints.
type RatesHandler struct {
	svc *pricing.Service
}

// NewRatesHandler creates a new rates handler.
func NewRatesHandler(svc *pricing.Service) *RatesHandler {
	return &RatesHandler{svc: svc}
}

// parsePagination reads offset/limit query parameters. Absent or
// malformed values fall back to the defaults; limit is otherwise taken
// as given, callers bound their own page sizes.
func parsePagination(r *http.Request) (offset, limit int) {
	offset = 0
	limit = defaultPageLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	return offset, limit
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

// Calculate computes rate suggestions for a project and records the
// calculation in the caller's history.
func (h *RatesHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req models.RateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, stored, err := h.svc.Estimate(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	ObserveCalculation(string(req.ProjectType))

	w.Header().Set("X-Calculation-ID", strconv.FormatInt(stored.ID, 10))
	writeData(w, http.StatusOK, result)
}

// History lists the caller's calculations, newest first. The total
// count travels in the X-Total-Count header.
func (h *RatesHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	offset, limit := parsePagination(r)

	total, err := h.svc.HistoryCount(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	calcs, err := h.svc.History(r.Context(), userID, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	writeData(w, http.StatusOK, calcs)
}

// Get returns one of the caller's calculations.
func (h *RatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	calc, err := h.svc.Calculation(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, calc)
}

// Update applies a partial patch to one of the caller's calculations.
func (h *RatesHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var patch models.CalculationUpdate
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	calc, err := h.svc.UpdateCalculation(r.Context(), id, userID, &patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, calc)
}

// Delete permanently removes one of the caller's calculations.
func (h *RatesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.DeleteCalculation(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "calculation deleted"})
}

// Favorites lists the caller's favorite calculations.
func (h *RatesHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	calcs, err := h.svc.Favorites(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, calcs)
}

type favoriteRequest struct {
	IsFavorite bool `json:"is_favorite"`
}

// SetFavorite flags or unflags one of the caller's calculations.
func (h *RatesHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req favoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	calc, err := h.svc.SetFavorite(r.Context(), id, userID, req.IsFavorite)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, calc)
}

// Recent lists the newest calculations across all users. Admin only.
func (h *RatesHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}

	calcs, err := h.svc.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, calcs)
}

// ByProjectType lists calculations for one project type across all
// users. Admin only.
func (h *RatesHandler) ByProjectType(w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePagination(r)
	projectType := models.ProjectType(r.PathValue("type"))

	calcs, err := h.svc.ByProjectType(r.Context(), projectType, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, calcs)
}
