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

const contractColumns = `id, user_id, contract_number, client_name, client_email,
	project_title, project_description, contract_type,
	hourly_rate, fixed_price, retainer_amount, currency,
	start_date, end_date, estimated_hours, status,
	payment_terms, deliverables, milestones, terms_and_conditions,
	pdf_key, signed_by_client, signed_by_freelancer, created_at, updated_at`

// ContractRepository handles contract database operations.
type ContractRepository struct {
	db *DB
}

// NewContractRepository creates a new contract repository.
func NewContractRepository(db *DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// Create inserts a new contract in draft status.
func (r *ContractRepository) Create(ctx context.Context, c *models.Contract) (*models.Contract, error) {
	query := `
		INSERT INTO contracts (
			user_id, contract_number, client_name, client_email,
			project_title, project_description, contract_type,
			hourly_rate, fixed_price, retainer_amount, currency,
			start_date, end_date, estimated_hours, status,
			payment_terms, deliverables, milestones, terms_and_conditions,
			signed_by_client, signed_by_freelancer, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, false, false, $20, $20)
		RETURNING ` + contractColumns

	now := time.Now().UTC()
	created, err := scanContract(r.db.QueryRowContext(ctx, query,
		c.UserID, c.ContractNumber, c.ClientName, c.ClientEmail,
		c.ProjectTitle, c.ProjectDescription, string(c.ContractType),
		c.HourlyRate, c.FixedPrice, c.RetainerAmount, c.Currency,
		c.StartDate, c.EndDate, c.EstimatedHours, string(models.ContractStatusDraft),
		c.PaymentTerms, c.Deliverables, c.Milestones, c.TermsAndConditions,
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}
	return created, nil
}

// GetByID retrieves a contract owned by ownerID.
func (r *ContractRepository) GetByID(ctx context.Context, id, ownerID int64) (*models.Contract, error) {
	c, err := scanContract(r.db.QueryRowContext(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE id = $1 AND user_id = $2`, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return c, nil
}

// ListByUser retrieves a user's contracts, newest first.
func (r *ContractRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]models.Contract, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+contractColumns+`
		FROM contracts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3`, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	contracts := []models.Contract{}
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, *c)
	}
	return contracts, rows.Err()
}

// Update applies a partial patch to a contract owned by ownerID.
func (r *ContractRepository) Update(ctx context.Context, id, ownerID int64, patch *models.ContractUpdate) (*models.Contract, error) {
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
	if patch.ProjectTitle != nil {
		addSet("project_title", *patch.ProjectTitle)
	}
	if patch.ProjectDescription != nil {
		addSet("project_description", *patch.ProjectDescription)
	}
	if patch.HourlyRate != nil {
		addSet("hourly_rate", *patch.HourlyRate)
	}
	if patch.FixedPrice != nil {
		addSet("fixed_price", *patch.FixedPrice)
	}
	if patch.RetainerAmount != nil {
		addSet("retainer_amount", *patch.RetainerAmount)
	}
	if patch.EndDate != nil {
		end, err := time.Parse("2006-01-02", *patch.EndDate)
		if err != nil {
			return nil, models.NewValidationError("end_date", "must be a YYYY-MM-DD date")
		}
		addSet("end_date", end)
	}
	if patch.EstimatedHours != nil {
		addSet("estimated_hours", *patch.EstimatedHours)
	}
	if patch.Status != nil {
		status := models.ContractStatus(*patch.Status)
		if !status.IsValid() {
			return nil, models.NewValidationError("status", "unknown contract status")
		}
		addSet("status", string(status))
	}
	if patch.PaymentTerms != nil {
		addSet("payment_terms", *patch.PaymentTerms)
	}
	if patch.Deliverables != nil {
		addSet("deliverables", *patch.Deliverables)
	}
	if patch.Milestones != nil {
		addSet("milestones", *patch.Milestones)
	}
	if patch.TermsAndConditions != nil {
		addSet("terms_and_conditions", *patch.TermsAndConditions)
	}
	if patch.SignedByClient != nil {
		addSet("signed_by_client", *patch.SignedByClient)
	}
	if patch.SignedByFreelancer != nil {
		addSet("signed_by_freelancer", *patch.SignedByFreelancer)
	}

	query := `UPDATE contracts SET ` + strings.Join(set, ", ") + `
		WHERE id = $1 AND user_id = $2
		RETURNING ` + contractColumns

	c, err := scanContract(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update contract: %w", err)
	}
	return c, nil
}

// Delete permanently removes a contract owned by ownerID.
func (r *ContractRepository) Delete(ctx context.Context, id, ownerID int64) error {
	affected, err := r.db.ExecContext(ctx,
		"DELETE FROM contracts WHERE id = $1 AND user_id = $2", id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	if affected == 0 {
		return models.ErrContractNotFound
	}
	return nil
}

// SetPDFKey records the storage key of the uploaded contract PDF.
func (r *ContractRepository) SetPDFKey(ctx context.Context, id, ownerID int64, key string) error {
	affected, err := r.db.ExecContext(ctx,
		"UPDATE contracts SET pdf_key = $3, updated_at = $4 WHERE id = $1 AND user_id = $2",
		id, ownerID, key, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set contract pdf key: %w", err)
	}
	if affected == 0 {
		return models.ErrContractNotFound
	}
	return nil
}

func scanContract(row pgx.Row) (*models.Contract, error) {
	var c models.Contract
	var contractType, status string
	err := row.Scan(
		&c.ID, &c.UserID, &c.ContractNumber, &c.ClientName, &c.ClientEmail,
		&c.ProjectTitle, &c.ProjectDescription, &contractType,
		&c.HourlyRate, &c.FixedPrice, &c.RetainerAmount, &c.Currency,
		&c.StartDate, &c.EndDate, &c.EstimatedHours, &status,
		&c.PaymentTerms, &c.Deliverables, &c.Milestones, &c.TermsAndConditions,
		&c.PDFKey, &c.SignedByClient, &c.SignedByFreelancer, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.ContractType = models.ContractType(contractType)
	c.Status = models.ContractStatus(status)
	return &c, nil
}
