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
	"github.com/jackc/pgx/v5/pgconn"

	"freelance-rate-engine/internal/models"
)

const userColumns = `id, email, password_hash, is_active, is_verified, role, created_at, updated_at`

const profileColumns = `id, user_id, first_name, last_name, phone, bio,
	profession, experience_years, skills, portfolio_url, linkedin_url,
	city, country, preferred_currency, hourly_rate_preference, created_at, updated_at`

// UserRepository handles user and profile database operations.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with an empty profile in one transaction.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (*models.User, error) {
	var user *models.User
	now := time.Now().UTC()

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO users (email, password_hash, is_active, is_verified, role, created_at, updated_at)
			VALUES ($1, $2, true, false, $3, $4, $4)
			RETURNING `+userColumns,
			email, passwordHash, string(models.RoleFreelancer), now)

		u, err := scanUser(row)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO user_profiles (user_id, country, preferred_currency, created_at, updated_at)
			VALUES ($1, 'Egypt', $2, $3, $3)`,
			u.ID, models.CurrencyEGP, now)
		if err != nil {
			return err
		}

		user = u
		return nil
	})

	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 is unique_violation; the only unique constraint here is email.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by their database ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND is_active = true`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 AND is_active = true`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetProfile retrieves the profile belonging to a user.
func (r *UserRepository) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	profile, err := scanProfile(r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM user_profiles WHERE user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile applies a partial patch to a user's profile and bumps
// updated_at. Nil fields are left untouched.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, patch *models.ProfileUpdate) (*models.UserProfile, error) {
	set := []string{"updated_at = $2"}
	args := []interface{}{userID, time.Now().UTC()}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, column+" = $"+strconv.Itoa(len(args)))
	}

	if patch.FirstName != nil {
		addSet("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		addSet("last_name", *patch.LastName)
	}
	if patch.Phone != nil {
		addSet("phone", *patch.Phone)
	}
	if patch.Bio != nil {
		addSet("bio", *patch.Bio)
	}
	if patch.Profession != nil {
		addSet("profession", *patch.Profession)
	}
	if patch.ExperienceYears != nil {
		addSet("experience_years", *patch.ExperienceYears)
	}
	if patch.Skills != nil {
		addSet("skills", *patch.Skills)
	}
	if patch.PortfolioURL != nil {
		addSet("portfolio_url", *patch.PortfolioURL)
	}
	if patch.LinkedinURL != nil {
		addSet("linkedin_url", *patch.LinkedinURL)
	}
	if patch.City != nil {
		addSet("city", *patch.City)
	}
	if patch.Country != nil {
		addSet("country", *patch.Country)
	}
	if patch.HourlyRatePreference != nil {
		addSet("hourly_rate_preference", *patch.HourlyRatePreference)
	}

	query := `UPDATE user_profiles SET ` + strings.Join(set, ", ") + `
		WHERE user_id = $1
		RETURNING ` + profileColumns

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.IsVerified,
		&role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = models.UserRole(role)
	return &u, nil
}

func scanProfile(row pgx.Row) (*models.UserProfile, error) {
	var p models.UserProfile
	err := row.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Phone, &p.Bio,
		&p.Profession, &p.ExperienceYears, &p.Skills, &p.PortfolioURL, &p.LinkedinURL,
		&p.City, &p.Country, &p.PreferredCurrency, &p.HourlyRatePreference,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
