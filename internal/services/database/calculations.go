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

// calculationColumns is the canonical column list scanned into a
// models.RateCalculation. Keep in sync with scanCalculation.
const calculationColumns = `id, user_id, project_type, project_complexity, estimated_hours,
	experience_years, skills_count, location, client_region, urgency,
	minimum_rate, competitive_rate, premium_rate, currency,
	calculation_method, confidence_score, reasoning,
	preferred_rate, is_favorite, created_at, updated_at`

// CalculationRepository handles rate calculation database operations.
type CalculationRepository struct {
	db *DB
}

// NewCalculationRepository creates a new calculation repository.
func NewCalculationRepository(db *DB) *CalculationRepository {
	return &CalculationRepository{db: db}
}

// Create inserts a new calculation and returns it with identity and
// timestamps assigned.
func (r *CalculationRepository) Create(ctx context.Context, data *models.CalculationCreate) (*models.RateCalculation, error) {
	query := `
		INSERT INTO rate_calculations (
			user_id, project_type, project_complexity, estimated_hours,
			experience_years, skills_count, location, client_region, urgency,
			minimum_rate, competitive_rate, premium_rate, currency,
			calculation_method, is_favorite, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, false, $15, $15)
		RETURNING ` + calculationColumns

	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx, query,
		data.UserID,
		string(data.Request.ProjectType),
		string(data.Request.ProjectComplexity),
		data.Request.EstimatedHours,
		data.Request.ExperienceYears,
		data.Request.SkillsCount,
		data.Request.Location,
		string(data.Request.ClientRegion),
		string(data.Request.Urgency),
		data.Result.MinimumRate,
		data.Result.CompetitiveRate,
		data.Result.PremiumRate,
		data.Result.Currency,
		data.Result.Method,
		now,
	)

	calc, err := scanCalculation(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create calculation: %w", err)
	}
	return calc, nil
}

// GetByID retrieves a calculation by its identifier.
func (r *CalculationRepository) GetByID(ctx context.Context, id int64) (*models.RateCalculation, error) {
	query := `SELECT ` + calculationColumns + ` FROM rate_calculations WHERE id = $1`

	calc, err := scanCalculation(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrCalculationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calculation: %w", err)
	}
	return calc, nil
}

// ListByUser retrieves a user's calculations ordered most-recent-first,
// with offset/limit pagination. The (user_id, created_at DESC) index
// keeps this from scanning unrelated rows for large histories.
func (r *CalculationRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]models.RateCalculation, error) {
	query := `
		SELECT ` + calculationColumns + `
		FROM rate_calculations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	defer rows.Close()

	return scanCalculations(rows)
}

// Update applies a partial patch to a calculation owned by ownerID and
// bumps updated_at. The ownership check is part of the UPDATE predicate
// so it is atomic with the mutation; zero rows means not found (or not
// the owner, which is reported identically).
func (r *CalculationRepository) Update(ctx context.Context, id, ownerID int64, patch *models.CalculationUpdate) (*models.RateCalculation, error) {
	set := []string{"updated_at = $3"}
	args := []interface{}{id, ownerID, time.Now().UTC()}

	if patch.PreferredRate != nil {
		args = append(args, *patch.PreferredRate)
		set = append(set, "preferred_rate = $"+strconv.Itoa(len(args)))
	}
	if patch.Reasoning != nil {
		args = append(args, *patch.Reasoning)
		set = append(set, "reasoning = $"+strconv.Itoa(len(args)))
	}

	query := `UPDATE rate_calculations SET ` + strings.Join(set, ", ") + `
		WHERE id = $1 AND user_id = $2
		RETURNING ` + calculationColumns

	calc, err := scanCalculation(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrCalculationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update calculation: %w", err)
	}
	return calc, nil
}

// Delete permanently removes a calculation owned by ownerID.
func (r *CalculationRepository) Delete(ctx context.Context, id, ownerID int64) error {
	affected, err := r.db.ExecContext(ctx,
		"DELETE FROM rate_calculations WHERE id = $1 AND user_id = $2", id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete calculation: %w", err)
	}
	if affected == 0 {
		return models.ErrCalculationNotFound
	}
	return nil
}

// ListFavorites retrieves a user's favorite calculations, newest first.
func (r *CalculationRepository) ListFavorites(ctx context.Context, userID int64) ([]models.RateCalculation, error) {
	query := `
		SELECT ` + calculationColumns + `
		FROM rate_calculations
		WHERE user_id = $1 AND is_favorite = true
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	return scanCalculations(rows)
}

// SetFavorite flags or unflags a calculation owned by ownerID. Ownership
// is checked in the same statement as the mutation, so a concurrent
// caller can never toggle a record it does not own.
func (r *CalculationRepository) SetFavorite(ctx context.Context, id, ownerID int64, favorite bool) (*models.RateCalculation, error) {
	query := `
		UPDATE rate_calculations
		SET is_favorite = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
		RETURNING ` + calculationColumns

	calc, err := scanCalculation(r.db.QueryRowContext(ctx, query, id, ownerID, favorite, time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrCalculationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set favorite: %w", err)
	}
	return calc, nil
}

// ListByProjectType retrieves calculations for one project type across
// all users, newest first, paginated. Read-only administrative view.
func (r *CalculationRepository) ListByProjectType(ctx context.Context, projectType models.ProjectType, offset, limit int) ([]models.RateCalculation, error) {
	query := `
		SELECT ` + calculationColumns + `
		FROM rate_calculations
		WHERE project_type = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, string(projectType), offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations by project type: %w", err)
	}
	defer rows.Close()

	return scanCalculations(rows)
}

// CountByUser returns the total number of calculations for a user.
func (r *CalculationRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rate_calculations WHERE user_id = $1", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count calculations: %w", err)
	}
	return count, nil
}

// ListRecent retrieves the newest calculations across all users.
// Read-only administrative view.
func (r *CalculationRepository) ListRecent(ctx context.Context, limit int) ([]models.RateCalculation, error) {
	query := `
		SELECT ` + calculationColumns + `
		FROM rate_calculations
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent calculations: %w", err)
	}
	defer rows.Close()

	return scanCalculations(rows)
}

// scanCalculation scans a single row into a RateCalculation.
func scanCalculation(row pgx.Row) (*models.RateCalculation, error) {
	var c models.RateCalculation
	var projectType, complexity, region, urgency string

	err := row.Scan(
		&c.ID, &c.UserID, &projectType, &complexity, &c.EstimatedHours,
		&c.ExperienceYears, &c.SkillsCount, &c.Location, &region, &urgency,
		&c.MinimumRate, &c.CompetitiveRate, &c.PremiumRate, &c.Currency,
		&c.CalculationMethod, &c.ConfidenceScore, &c.Reasoning,
		&c.PreferredRate, &c.IsFavorite, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.ProjectType = models.ProjectType(projectType)
	c.ProjectComplexity = models.ProjectComplexity(complexity)
	c.ClientRegion = models.ClientRegion(region)
	c.Urgency = models.Urgency(urgency)
	return &c, nil
}

// scanCalculations scans all rows into a RateCalculation slice.
func scanCalculations(rows pgx.Rows) ([]models.RateCalculation, error) {
	calculations := []models.RateCalculation{}
	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		calculations = append(calculations, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read calculations: %w", err)
	}
	return calculations, nil
}
