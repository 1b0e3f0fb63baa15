// Package database provides PostgreSQL persistence for the freelance rate engine.
package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"freelance-rate-engine/internal/models"
)

const invoiceColumns = `id, user_id, invoice_number, client_name, client_email, client_address,
	subtotal, tax_rate, tax_amount, total_amount, currency,
	issue_date, due_date, paid_date, status, notes, payment_terms, pdf_key,
	created_at, updated_at`

// InvoiceRepository handles invoice database operations.
type InvoiceRepository struct {
	db *DB
}

// NewInvoiceRepository creates a new invoice repository.
func NewInvoiceRepository(db *DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts a new invoice in draft status.
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	query := `
		INSERT INTO invoices (
			user_id, invoice_number, client_name, client_email, client_address,
			subtotal, tax_rate, tax_amount, total_amount, currency,
			issue_date, due_date, status, notes, payment_terms, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
		RETURNING ` + invoiceColumns

	now := time.Now().UTC()
	created, err := scanInvoice(r.db.QueryRowContext(ctx, query,
		inv.UserID, inv.InvoiceNumber, inv.ClientName, inv.ClientEmail, inv.ClientAddress,
		inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.TotalAmount, inv.Currency,
		inv.IssueDate, inv.DueDate, string(models.InvoiceStatusDraft),
		inv.Notes, inv.PaymentTerms, now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return created, nil
}

// GetByID retrieves an invoice owned by ownerID.
func (r *InvoiceRepository) GetByID(ctx context.Context, id, ownerID int64) (*models.Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 AND user_id = $2`, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

// ListByUser retrieves a user's invoices, newest first.
func (r *InvoiceRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]models.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3`, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

// Update applies a partial patch to an invoice owned by ownerID.
func (r *InvoiceRepository) Update(ctx context.Context, id, ownerID int64, patch *models.InvoiceUpdate) (*models.Invoice, error) {
	set := []string{"updated_at = $3"}
	args := []interface{}{id, ownerID, time.Now().UTC()}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, column+" = $"+strconv.Itoa(len(args)))
	}

	if patch.ClientName != nil {
		addSet("client_name", *patch.ClientName)
	}
	if patch.ClientEmail != nil {
		addSet("client_email", *patch.ClientEmail)
	}
	if patch.ClientAddress != nil {
		addSet("client_address", *patch.ClientAddress)
	}

	// Column references in SET expressions see the row's old values, so
	// the derived totals must be computed from the bound parameters, not
	// from the subtotal/tax_rate columns being assigned.
	subtotalExpr, taxRateExpr := "subtotal", "tax_rate"
	if patch.Subtotal != nil {
		addSet("subtotal", *patch.Subtotal)
		subtotalExpr = "$" + strconv.Itoa(len(args))
	}
	if patch.TaxRate != nil {
		addSet("tax_rate", *patch.TaxRate)
		taxRateExpr = "$" + strconv.Itoa(len(args))
	}
	if patch.Subtotal != nil || patch.TaxRate != nil {
		set = append(set,
			"tax_amount = "+subtotalExpr+" * "+taxRateExpr,
			"total_amount = "+subtotalExpr+" * (1 + "+taxRateExpr+")")
	}
	if patch.DueDate != nil {
		due, err := time.Parse("2006-01-02", *patch.DueDate)
		if err != nil {
			return nil, models.NewValidationError("due_date", "must be a YYYY-MM-DD date")
		}
		addSet("due_date", due)
	}
	if patch.Status != nil {
		status := models.InvoiceStatus(*patch.Status)
		if !status.IsValid() {
			return nil, models.NewValidationError("status", "unknown invoice status")
		}
		addSet("status", string(status))
		if status == models.InvoiceStatusPaid {
			addSet("paid_date", time.Now().UTC())
		}
	}
	if patch.Notes != nil {
		addSet("notes", *patch.Notes)
	}
	if patch.PaymentTerms != nil {
		addSet("payment_terms", *patch.PaymentTerms)
	}

	query := `UPDATE invoices SET ` + strings.Join(set, ", ") + `
		WHERE id = $1 AND user_id = $2
		RETURNING ` + invoiceColumns

	inv, err := scanInvoice(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	return inv, nil
}

// Delete permanently removes an invoice owned by ownerID.
func (r *InvoiceRepository) Delete(ctx context.Context, id, ownerID int64) error {
	affected, err := r.db.ExecContext(ctx,
		"DELETE FROM invoices WHERE id = $1 AND user_id = $2", id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if affected == 0 {
		return models.ErrInvoiceNotFound
	}
	return nil
}

// SetPDFKey records the storage key of the uploaded invoice PDF.
func (r *InvoiceRepository) SetPDFKey(ctx context.Context, id, ownerID int64, key string) error {
	affected, err := r.db.ExecContext(ctx,
		"UPDATE invoices SET pdf_key = $3, updated_at = $4 WHERE id = $1 AND user_id = $2",
		id, ownerID, key, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set invoice pdf key: %w", err)
	}
	if affected == 0 {
		return models.ErrInvoiceNotFound
	}
	return nil
}

// MarkSent transitions a draft invoice to sent.
func (r *InvoiceRepository) MarkSent(ctx context.Context, id, ownerID int64) (*models.Invoice, error) {
	query := `
		UPDATE invoices SET status = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
		RETURNING ` + invoiceColumns

	inv, err := scanInvoice(r.db.QueryRowContext(ctx, query,
		id, ownerID, string(models.InvoiceStatusSent), time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark invoice sent: %w", err)
	}
	return inv, nil
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	var status string
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.InvoiceNumber, &inv.ClientName, &inv.ClientEmail, &inv.ClientAddress,
		&inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.TotalAmount, &inv.Currency,
		&inv.IssueDate, &inv.DueDate, &inv.PaidDate, &status, &inv.Notes, &inv.PaymentTerms, &inv.PDFKey,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = models.InvoiceStatus(status)
	return &inv, nil
}
