package database_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freelance-rate-engine/internal/models"
	"freelance-rate-engine/internal/services/database"
)

// testDB connects to the database named by TEST_DATABASE_URL, skipping
// the test when it is not set. The schema from scripts/init_database.sql
// must already be applied.
func testDB(t *testing.T) *database.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database integration test")
	}

	db, err := database.NewFromURL(url)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

// createTestUser inserts a throwaway user and removes it (and its
// calculations, via cascade) when the test finishes.
func createTestUser(t *testing.T, db *database.DB) int64 {
	t.Helper()
	ctx := context.Background()

	users := database.NewUserRepository(db)
	email := fmt.Sprintf("calc-test-%d@example.com", time.Now().UnixNano())
	user, err := users.Create(ctx, email, "x")
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), "DELETE FROM users WHERE id = $1", user.ID)
	})
	return user.ID
}

func testCreate(t *testing.T, repo *database.CalculationRepository, userID int64) *models.RateCalculation {
	t.Helper()
	calc, err := repo.Create(context.Background(), &models.CalculationCreate{
		UserID: userID,
		Request: models.RateRequest{
			ProjectType:       models.ProjectTypeWebDevelopment,
			ProjectComplexity: models.ComplexityModerate,
			EstimatedHours:    40,
			ExperienceYears:   3,
			SkillsCount:       5,
			ClientRegion:      models.RegionEgypt,
			Urgency:           models.UrgencyNormal,
		},
		Result: models.RateResult{
			MinimumRate:     200,
			CompetitiveRate: 250,
			PremiumRate:     325,
			Currency:        models.CurrencyEGP,
			Method:          models.MethodRuleBased,
		},
	})
	require.NoError(t, err)
	return calc
}

func TestCalculationRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := database.NewCalculationRepository(db)
	userID := createTestUser(t, db)

	created := testCreate(t, repo, userID)
	assert.NotZero(t, created.ID)
	assert.Equal(t, userID, created.UserID)
	assert.False(t, created.IsFavorite)
	assert.Equal(t, "rule_based", created.CalculationMethod)

	fetched, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, 250.0, fetched.CompetitiveRate)
}

func TestCalculationRepository_GetMissing(t *testing.T) {
	db := testDB(t)
	repo := database.NewCalculationRepository(db)

	_, err := repo.GetByID(context.Background(), -1)
	assert.ErrorIs(t, err, models.ErrCalculationNotFound)
}

func TestCalculationRepository_Pagination(t *testing.T) {
	db := testDB(t)
	repo := database.NewCalculationRepository(db)
	userID := createTestUser(t, db)

	for i := 0; i < 15; i++ {
		testCreate(t, repo, userID)
	}

	count, err := repo.CountByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 15, count)

	page, err := repo.ListByUser(context.Background(), userID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, page, 10)

	tail, err := repo.ListByUser(context.Background(), userID, 10, 10)
	require.NoError(t, err)
	assert.Len(t, tail, 5)

	beyond, err := repo.ListByUser(context.Background(), userID, 100, 10)
	require.NoError(t, err)
	assert.Empty(t, beyond)

	// Newest first, ties broken by id descending.
	for i := 1; i < len(page); i++ {
		prev, cur := page[i-1], page[i]
		require.False(t, prev.CreatedAt.Before(cur.CreatedAt))
		if prev.CreatedAt.Equal(cur.CreatedAt) {
			require.Greater(t, prev.ID, cur.ID)
		}
	}
}

func TestCalculationRepository_OwnershipIsolation(t *testing.T) {
	db := testDB(t)
	repo := database.NewCalculationRepository(db)
	owner := createTestUser(t, db)
	intruder := createTestUser(t, db)

	calc := testCreate(t, repo, owner)
	ctx := context.Background()

	rate := 300.0
	_, err := repo.Update(ctx, calc.ID, intruder, &models.CalculationUpdate{PreferredRate: &rate})
	assert.ErrorIs(t, err, models.ErrCalculationNotFound)

	_, err = repo.SetFavorite(ctx, calc.ID, intruder, true)
	assert.ErrorIs(t, err, models.ErrCalculationNotFound)

	err = repo.Delete(ctx, calc.ID, intruder)
	assert.ErrorIs(t, err, models.ErrCalculationNotFound)

	// The record is untouched and still owned.
	fetched, err := repo.GetByID(ctx, calc.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.PreferredRate)
	assert.False(t, fetched.IsFavorite)

	updated, err := repo.Update(ctx, calc.ID, owner, &models.CalculationUpdate{PreferredRate: &rate})
	require.NoError(t, err)
	require.NotNil(t, updated.PreferredRate)
	assert.Equal(t, 300.0, *updated.PreferredRate)

	require.NoError(t, repo.Delete(ctx, calc.ID, owner))
	_, err = repo.GetByID(ctx, calc.ID)
	assert.ErrorIs(t, err, models.ErrCalculationNotFound)
}

func TestCalculationRepository_Favorites(t *testing.T) {
	db := testDB(t)
	repo := database.NewCalculationRepository(db)
	userID := createTestUser(t, db)
	ctx := context.Background()

	first := testCreate(t, repo, userID)
	testCreate(t, repo, userID)

	flagged, err := repo.SetFavorite(ctx, first.ID, userID, true)
	require.NoError(t, err)
	assert.True(t, flagged.IsFavorite)

	favorites, err := repo.ListFavorites(ctx, userID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, first.ID, favorites[0].ID)
}
