package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"freelance-rate-engine/internal/models"
	"freelance-rate-engine/internal/services/database"
	"freelance-rate-engine/internal/services/mailer"
	"freelance-rate-engine/internal/services/storage"
)

// InvoiceHandler serves invoice management endpoints. The storage and
// mailer services are optional; endpoints that need them respond 503
// when they are not configured.
type InvoiceHandler struct {
	invoices *database.InvoiceRepository
	users    *database.UserRepository
	storage  *storage.Service
	mailer   *mailer.Service
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(invoices *database.InvoiceRepository, users *database.UserRepository, storageSvc *storage.Service, mailerSvc *mailer.Service) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, users: users, storage: storageSvc, mailer: mailerSvc}
}

// documentNumber builds a short human-readable unique reference.
func documentNumber(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

// Create creates a draft invoice. Totals are derived from subtotal and
// tax rate; the invoice number is assigned here.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req models.InvoiceCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&req); err != nil {
		writeError(w, err)
		return
	}

	issueDate, err := time.Parse("2006-01-02", req.IssueDate)
	if err != nil {
		writeError(w, models.NewValidationError("issue_date", "must be a YYYY-MM-DD date"))
		return
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		writeError(w, models.NewValidationError("due_date", "must be a YYYY-MM-DD date"))
		return
	}
	if dueDate.Before(issueDate) {
		writeError(w, models.NewValidationError("due_date", "must not precede the issue date"))
		return
	}

	inv := &models.Invoice{
		UserID:        userID,
		InvoiceNumber: documentNumber("INV"),
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientAddress: req.ClientAddress,
		Subtotal:      req.Subtotal,
		TaxRate:       req.TaxRate,
		TaxAmount:     req.Subtotal * req.TaxRate,
		TotalAmount:   req.Subtotal * (1 + req.TaxRate),
		Currency:      models.CurrencyEGP,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Notes:         req.Notes,
		PaymentTerms:  req.PaymentTerms,
	}

	created, err := h.invoices.Create(r.Context(), inv)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

// List returns the caller's invoices, newest first.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	offset, limit := parsePagination(r)

	invoices, err := h.invoices.ListByUser(r.Context(), userID, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, invoices)
}

// Get returns one of the caller's invoices.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	inv, err := h.invoices.GetByID(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, inv)
}

// Update applies a partial patch to one of the caller's invoices.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var patch models.InvoiceUpdate
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&patch); err != nil {
		writeError(w, err)
		return
	}

	inv, err := h.invoices.Update(r.Context(), id, userID, &patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, inv)
}

// Delete permanently removes one of the caller's invoices.
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.invoices.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "invoice deleted"})
}

func (h *InvoiceHandler) storageConfigured(w http.ResponseWriter) bool {
	if h.storage == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "document storage not configured"})
		return false
	}
	return true
}

// PDFUploadURL issues a presigned upload URL for the invoice PDF and
// records the resulting storage key.
func (h *InvoiceHandler) PDFUploadURL(w http.ResponseWriter, r *http.Request) {
	if !h.storageConfigured(w) {
		return
	}
	userID, _ := UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.invoices.GetByID(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}

	key := storage.DocumentKey("invoices", userID)
	presigned, err := h.storage.PresignUpload(r.Context(), key, 15)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.invoices.SetPDFKey(r.Context(), id, userID, key); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, presigned)
}

// PDFDownloadURL issues a presigned download URL for a previously
// uploaded invoice PDF.
func (h *InvoiceHandler) PDFDownloadURL(w http.ResponseWriter, r *http.Request) {
	if !h.storageConfigured(w) {
		return
	}
	userID, _ := UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	inv, err := h.invoices.GetByID(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if inv.PDFKey == nil {
		writeError(w, models.NewValidationError("pdf_key", "invoice has no uploaded PDF"))
		return
	}

	presigned, err := h.storage.PresignDownload(r.Context(), *inv.PDFKey, 15)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, presigned)
}

// Send emails the invoice to its client and marks it sent. A download
// link is included when a PDF has been uploaded.
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	if h.mailer == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "email delivery not configured"})
		return
	}
	userID, _ := UserID(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	inv, err := h.invoices.GetByID(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	fromName := user.Email
	if profile, err := h.users.GetProfile(r.Context(), userID); err == nil &&
		profile.FirstName != nil && *profile.FirstName != "" {
		fromName = *profile.FirstName
		if profile.LastName != nil && *profile.LastName != "" {
			fromName += " " + *profile.LastName
		}
	}

	var downloadURL string
	if inv.PDFKey != nil && h.storage != nil {
		// Give the client a week to fetch the PDF.
		if presigned, err := h.storage.PresignDownload(r.Context(), *inv.PDFKey, 7*24*60); err == nil {
			downloadURL = presigned.URL
		}
	}

	if err := h.mailer.SendInvoice(r.Context(), mailer.InvoiceEmailParams{
		Invoice:     inv,
		FromName:    fromName,
		DownloadURL: downloadURL,
	}); err != nil {
		writeError(w, err)
		return
	}

	sent, err := h.invoices.MarkSent(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "invoice sent", Data: sent})
}
