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

func createTestInvoice(t *testing.T, repo *database.InvoiceRepository, userID int64) *models.Invoice {
	t.Helper()
	issue := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	inv, err := repo.Create(context.Background(), &models.Invoice{
		UserID:        userID,
		InvoiceNumber: "INV-TEST-" + time.Now().UTC().Format("150405.000000000"),
		ClientName:    "Acme Corp",
		Subtotal:      100,
		TaxRate:       0.1,
		TaxAmount:     10,
		TotalAmount:   110,
		Currency:      models.CurrencyEGP,
		IssueDate:     issue,
		DueDate:       issue.AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	return inv
}

func TestInvoiceRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := database.NewInvoiceRepository(db)
	userID := createTestUser(t, db)

	created := createTestInvoice(t, repo, userID)
	assert.NotZero(t, created.ID)
	assert.Equal(t, models.InvoiceStatusDraft, created.Status)
	assert.InDelta(t, 110.0, created.TotalAmount, 1e-9)

	fetched, err := repo.GetByID(context.Background(), created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, created.InvoiceNumber, fetched.InvoiceNumber)

	// Another user cannot see it.
	intruder := createTestUser(t, db)
	_, err = repo.GetByID(context.Background(), created.ID, intruder)
	assert.ErrorIs(t, err, models.ErrInvoiceNotFound)
}

func TestInvoiceRepository_UpdateRecomputesTotals(t *testing.T) {
	db := testDB(t)
	repo := database.NewInvoiceRepository(db)
	userID := createTestUser(t, db)
	ctx := context.Background()

	inv := createTestInvoice(t, repo, userID)

	// Subtotal-only patch: the derived columns must follow the new
	// subtotal, not the stored one.
	subtotal := 200.0
	updated, err := repo.Update(ctx, inv.ID, userID, &models.InvoiceUpdate{Subtotal: &subtotal})
	require.NoError(t, err)
	assert.InDelta(t, 200.0, updated.Subtotal, 1e-9)
	assert.InDelta(t, 0.1, updated.TaxRate, 1e-9)
	assert.InDelta(t, 20.0, updated.TaxAmount, 1e-9)
	assert.InDelta(t, 220.0, updated.TotalAmount, 1e-9)

	// Tax-rate-only patch against the already-updated subtotal.
	taxRate := 0.2
	updated, err = repo.Update(ctx, inv.ID, userID, &models.InvoiceUpdate{TaxRate: &taxRate})
	require.NoError(t, err)
	assert.InDelta(t, 200.0, updated.Subtotal, 1e-9)
	assert.InDelta(t, 40.0, updated.TaxAmount, 1e-9)
	assert.InDelta(t, 240.0, updated.TotalAmount, 1e-9)

	// Both at once.
	subtotal, taxRate = 50.0, 0.0
	updated, err = repo.Update(ctx, inv.ID, userID, &models.InvoiceUpdate{Subtotal: &subtotal, TaxRate: &taxRate})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, updated.TaxAmount, 1e-9)
	assert.InDelta(t, 50.0, updated.TotalAmount, 1e-9)
}

func TestInvoiceRepository_Update_LeavesTotalsWhenInputsUntouched(t *testing.T) {
	db := testDB(t)
	repo := database.NewInvoiceRepository(db)
	userID := createTestUser(t, db)

	inv := createTestInvoice(t, repo, userID)

	name := "Acme Industries"
	updated, err := repo.Update(context.Background(), inv.ID, userID, &models.InvoiceUpdate{ClientName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Acme Industries", updated.ClientName)
	assert.InDelta(t, inv.TaxAmount, updated.TaxAmount, 1e-9)
	assert.InDelta(t, inv.TotalAmount, updated.TotalAmount, 1e-9)
}

func TestInvoiceRepository_Update_PaidSetsPaidDate(t *testing.T) {
	db := testDB(t)
	repo := database.NewInvoiceRepository(db)
	userID := createTestUser(t, db)

	inv := createTestInvoice(t, repo, userID)
	require.Nil(t, inv.PaidDate)

	status := string(models.InvoiceStatusPaid)
	updated, err := repo.Update(context.Background(), inv.ID, userID, &models.InvoiceUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, updated.Status)
	require.NotNil(t, updated.PaidDate)
}

func TestInvoiceRepository_Update_RejectsUnknownStatus(t *testing.T) {
	db := testDB(t)
	repo := database.NewInvoiceRepository(db)
	userID := createTestUser(t, db)

	inv := createTestInvoice(t, repo, userID)

	status := "pending"
	_, err := repo.Update(context.Background(), inv.ID, userID, &models.InvoiceUpdate{Status: &status})
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}

func TestInvoiceRepository_OwnershipIsolation(t *testing.T) {
	db := testDB(t)
	repo := database.NewInvoiceRepository(db)
	owner := createTestUser(t, db)
	intruder := createTestUser(t, db)
	ctx := context.Background()

	inv := createTestInvoice(t, repo, owner)

	subtotal := 999.0
	_, err := repo.Update(ctx, inv.ID, intruder, &models.InvoiceUpdate{Subtotal: &subtotal})
	assert.ErrorIs(t, err, models.ErrInvoiceNotFound)

	err = repo.SetPDFKey(ctx, inv.ID, intruder, "invoices/0/fake.pdf")
	assert.ErrorIs(t, err, models.ErrInvoiceNotFound)

	err = repo.Delete(ctx, inv.ID, intruder)
	assert.ErrorIs(t, err, models.ErrInvoiceNotFound)

	fetched, err := repo.GetByID(ctx, inv.ID, owner)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, fetched.Subtotal, 1e-9)
	assert.Nil(t, fetched.PDFKey)
}

func TestInvoiceRepository_MarkSent(t *testing.T) {
	db := testDB(t)
	repo := database.NewInvoiceRepository(db)
	userID := createTestUser(t, db)

	inv := createTestInvoice(t, repo, userID)

	sent, err := repo.MarkSent(context.Background(), inv.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusSent, sent.Status)

	_, err = repo.MarkSent(context.Background(), inv.ID, userID+1)
	assert.ErrorIs(t, err, models.ErrInvoiceNotFound)
}
