package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freelance-rate-engine/internal/models"
	"freelance-rate-engine/internal/services/database"
)

func createTestContract(t *testing.T, repo *database.ContractRepository, userID int64) *models.Contract {
	t.Helper()
	rate := 250.0
	c, err := repo.Create(context.Background(), &models.Contract{
		UserID:         userID,
		ContractNumber: "CTR-TEST-" + time.Now().UTC().Format("150405.000000000"),
		ClientName:     "Acme Corp",
		ProjectTitle:   "Marketing site rebuild",
		ContractType:   models.ContractTypeHourly,
		HourlyRate:     &rate,
		Currency:       models.CurrencyEGP,
		StartDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return c
}

func TestContractRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := database.NewContractRepository(db)
	userID := createTestUser(t, db)

	created := createTestContract(t, repo, userID)
	assert.NotZero(t, created.ID)
	assert.Equal(t, models.ContractStatusDraft, created.Status)
	assert.False(t, created.SignedByClient)
	assert.False(t, created.SignedByFreelancer)
	require.NotNil(t, created.HourlyRate)
	assert.InDelta(t, 250.0, *created.HourlyRate, 1e-9)

	fetched, err := repo.GetByID(context.Background(), created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, created.ContractNumber, fetched.ContractNumber)

	intruder := createTestUser(t, db)
	_, err = repo.GetByID(context.Background(), created.ID, intruder)
	assert.ErrorIs(t, err, models.ErrContractNotFound)
}

func TestContractRepository_UpdatePatch(t *testing.T) {
	db := testDB(t)
	repo := database.NewContractRepository(db)
	userID := createTestUser(t, db)
	ctx := context.Background()

	c := createTestContract(t, repo, userID)

	status := string(models.ContractStatusActive)
	signed := true
	rate := 300.0
	updated, err := repo.Update(ctx, c.ID, userID, &models.ContractUpdate{
		Status:         &status,
		SignedByClient: &signed,
		HourlyRate:     &rate,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusActive, updated.Status)
	assert.True(t, updated.SignedByClient)
	assert.False(t, updated.SignedByFreelancer)
	require.NotNil(t, updated.HourlyRate)
	assert.InDelta(t, 300.0, *updated.HourlyRate, 1e-9)

	// Untouched fields survive the patch.
	assert.Equal(t, c.ClientName, updated.ClientName)
	assert.Equal(t, c.ProjectTitle, updated.ProjectTitle)
}

func TestContractRepository_Update_RejectsUnknownStatus(t *testing.T) {
	db := testDB(t)
	repo := database.NewContractRepository(db)
	userID := createTestUser(t, db)

	c := createTestContract(t, repo, userID)

	status := "paused"
	_, err := repo.Update(context.Background(), c.ID, userID, &models.ContractUpdate{Status: &status})
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}

func TestContractRepository_OwnershipIsolation(t *testing.T) {
	db := testDB(t)
	repo := database.NewContractRepository(db)
	owner := createTestUser(t, db)
	intruder := createTestUser(t, db)
	ctx := context.Background()

	c := createTestContract(t, repo, owner)

	signed := true
	_, err := repo.Update(ctx, c.ID, intruder, &models.ContractUpdate{SignedByClient: &signed})
	assert.ErrorIs(t, err, models.ErrContractNotFound)

	err = repo.SetPDFKey(ctx, c.ID, intruder, "contracts/0/fake.pdf")
	assert.ErrorIs(t, err, models.ErrContractNotFound)

	err = repo.Delete(ctx, c.ID, intruder)
	assert.ErrorIs(t, err, models.ErrContractNotFound)

	fetched, err := repo.GetByID(ctx, c.ID, owner)
	require.NoError(t, err)
	assert.False(t, fetched.SignedByClient)
	assert.Nil(t, fetched.PDFKey)

	require.NoError(t, repo.Delete(ctx, c.ID, owner))
	_, err = repo.GetByID(ctx, c.ID, owner)
	assert.ErrorIs(t, err, models.ErrContractNotFound)
}
