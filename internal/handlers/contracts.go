package handlers

import (
	"net/http"
	"time"

	"freelance-rate-engine/internal/models"
	"freelance-rate-engine/internal/services/database"
	"freelance-rate-engine/internal/services/storage"
)

// ContractHandler serves contract management endpoints.
type ContractHandler struct {
	contracts *database.ContractRepository
	storage   *storage.Service
}

// NewContractHandler creates a new contract handler.
func NewContractHandler(contracts *database.ContractRepository, storageSvc *storage.Service) *ContractHandler {
	return &ContractHandler{contracts: contracts, storage: storageSvc}
}

// Create creates a draft contract. The billing field matching the
// contract type must be present.
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req models.ContractCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&req); err != nil {
		writeError(w, err)
		return
	}

	contractType := models.ContractType(req.ContractType)
	switch contractType {
	case models.ContractTypeHourly:
		if req.HourlyRate == nil {
			writeError(w, models.NewValidationError("hourly_rate", "required for hourly contracts"))
			return
		}
	case models.ContractTypeFixedPrice, models.ContractTypeMilestone:
		if req.FixedPrice == nil {
			writeError(w, models.NewValidationError("fixed_price", "required for fixed price and milestone contracts"))
			return
		}
	case models.ContractTypeRetainer:
		if req.RetainerAmount == nil {
			writeError(w, models.NewValidationError("retainer_amount", "required for retainer contracts"))
			return
		}
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		writeError(w, models.NewValidationError("start_date", "must be a YYYY-MM-DD date"))
		return
	}
	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			writeError(w, models.NewValidationError("end_date", "must be a YYYY-MM-DD date"))
			return
		}
		if parsed.Before(startDate) {
			writeError(w, models.NewValidationError("end_date", "must not precede the start date"))
			return
		}
		endDate = &parsed
	}

	c := &models.Contract{
		UserID:             userID,
		ContractNumber:     documentNumber("CTR"),
		ClientName:         req.ClientName,
		ClientEmail:        req.ClientEmail,
		ProjectTitle:       req.ProjectTitle,
		ProjectDescription: req.ProjectDescription,
		ContractType:       contractType,
		HourlyRate:         req.HourlyRate,
		FixedPrice:         req.FixedPrice,
		RetainerAmount:     req.RetainerAmount,
		Currency:           models.CurrencyEGP,
		StartDate:          startDate,
		EndDate:            endDate,
		EstimatedHours:     req.EstimatedHours,
		PaymentTerms:       req.PaymentTerms,
		Deliverables:       req.Deliverables,
		Milestones:         req.Milestones,
		TermsAndConditions: req.TermsAndConditions,
	}

	created, err := h.contracts.Create(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

// List returns the caller's contracts, newest first.
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	offset, limit := parsePagination(r)

	contracts, err := h.contracts.ListByUser(r.Context(), userID, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, contracts)
}

// Get returns one of the caller's contracts.
func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.contracts.GetByID(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

// Update applies a partial patch to one of the caller's contracts.
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var patch models.ContractUpdate
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&patch); err != nil {
		writeError(w, err)
		return
	}

	c, err := h.contracts.Update(r.Context(), id, userID, &patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

// Delete permanently removes one of the caller's contracts.
func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.contracts.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "contract deleted"})
}

// PDFUploadURL issues a presigned upload URL for the contract PDF and
// records the resulting storage key.
func (h *ContractHandler) PDFUploadURL(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "document storage not configured"})
		return
	}
	userID, _ := UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.contracts.GetByID(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}

	key := storage.DocumentKey("contracts", userID)
	presigned, err := h.storage.PresignUpload(r.Context(), key, 15)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.contracts.SetPDFKey(r.Context(), id, userID, key); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, presigned)
}

// PDFDownloadURL issues a presigned download URL for a previously
// uploaded contract PDF.
func (h *ContractHandler) PDFDownloadURL(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "document storage not configured"})
		return
	}
	userID, _ := UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.contracts.GetByID(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if c.PDFKey == nil {
		writeError(w, models.NewValidationError("pdf_key", "contract has no uploaded PDF"))
		return
	}

	presigned, err := h.storage.PresignDownload(r.Context(), *c.PDFKey, 15)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, presigned)
}
