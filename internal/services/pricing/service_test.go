package pricing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"freelance-rate-engine/internal/models"
	"freelance-rate-engine/internal/services/pricing"
)

// fakeStore is an in-memory CalculationStore for exercising the service
// without a database.
type fakeStore struct {
	nextID  int64
	records map[int64]*models.RateCalculation
	creates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, records: map[int64]*models.RateCalculation{}}
}

func (f *fakeStore) Create(_ context.Context, data *models.CalculationCreate) (*models.RateCalculation, error) {
	f.creates++
	now := time.Now().UTC()
	calc := &models.RateCalculation{
		ID:                f.nextID,
		UserID:            data.UserID,
		ProjectType:       data.Request.ProjectType,
		ProjectComplexity: data.Request.ProjectComplexity,
		EstimatedHours:    data.Request.EstimatedHours,
		ExperienceYears:   data.Request.ExperienceYears,
		SkillsCount:       data.Request.SkillsCount,
		Location:          data.Request.Location,
		ClientRegion:      data.Request.ClientRegion,
		Urgency:           data.Request.Urgency,
		MinimumRate:       data.Result.MinimumRate,
		CompetitiveRate:   data.Result.CompetitiveRate,
		PremiumRate:       data.Result.PremiumRate,
		Currency:          data.Result.Currency,
		CalculationMethod: data.Result.Method,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	f.records[calc.ID] = calc
	f.nextID++
	return calc, nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*models.RateCalculation, error) {
	calc, ok := f.records[id]
	if !ok {
		return nil, models.ErrCalculationNotFound
	}
	return calc, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID int64, offset, limit int) ([]models.RateCalculation, error) {
	out := []models.RateCalculation{}
	for _, calc := range f.records {
		if calc.UserID == userID {
			out = append(out, *calc)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id, ownerID int64, patch *models.CalculationUpdate) (*models.RateCalculation, error) {
	calc, ok := f.records[id]
	if !ok || calc.UserID != ownerID {
		return nil, models.ErrCalculationNotFound
	}
	if patch.PreferredRate != nil {
		calc.PreferredRate = patch.PreferredRate
	}
	if patch.Reasoning != nil {
		calc.Reasoning = patch.Reasoning
	}
	return calc, nil
}

func (f *fakeStore) Delete(_ context.Context, id, ownerID int64) error {
	calc, ok := f.records[id]
	if !ok || calc.UserID != ownerID {
		return models.ErrCalculationNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeStore) ListFavorites(_ context.Context, userID int64) ([]models.RateCalculation, error) {
	out := []models.RateCalculation{}
	for _, calc := range f.records {
		if calc.UserID == userID && calc.IsFavorite {
			out = append(out, *calc)
		}
	}
	return out, nil
}

func (f *fakeStore) SetFavorite(_ context.Context, id, ownerID int64, favorite bool) (*models.RateCalculation, error) {
	calc, ok := f.records[id]
	if !ok || calc.UserID != ownerID {
		return nil, models.ErrCalculationNotFound
	}
	calc.IsFavorite = favorite
	return calc, nil
}

func (f *fakeStore) ListByProjectType(_ context.Context, projectType models.ProjectType, offset, limit int) ([]models.RateCalculation, error) {
	out := []models.RateCalculation{}
	for _, calc := range f.records {
		if calc.ProjectType == projectType {
			out = append(out, *calc)
		}
	}
	return out, nil
}

func (f *fakeStore) CountByUser(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, calc := range f.records {
		if calc.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) ListRecent(_ context.Context, limit int) ([]models.RateCalculation, error) {
	out := []models.RateCalculation{}
	for _, calc := range f.records {
		out = append(out, *calc)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func newTestService(store *fakeStore) *pricing.Service {
	return pricing.NewService(store, zap.NewNop())
}

func TestService_Estimate_PersistsCalculation(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	req := baselineRequest()
	result, stored, err := svc.Estimate(context.Background(), 42, req)

	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, stored)
	assert.Equal(t, 1, store.creates)
	assert.Equal(t, int64(42), stored.UserID)
	assert.Equal(t, result.CompetitiveRate, stored.CompetitiveRate)
	assert.Equal(t, result.MinimumRate, stored.MinimumRate)
	assert.Equal(t, result.PremiumRate, stored.PremiumRate)
	assert.False(t, stored.IsFavorite)
}

func TestService_Estimate_InvalidRequestNotStored(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	req := baselineRequest()
	req.EstimatedHours = 0

	_, _, err := svc.Estimate(context.Background(), 42, req)

	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
	assert.Zero(t, store.creates, "a failed validation must not persist anything")
}

func TestService_Estimate_AppliesDefaults(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	req := baselineRequest()
	req.ClientRegion = ""
	req.Urgency = ""

	_, stored, err := svc.Estimate(context.Background(), 1, req)

	require.NoError(t, err)
	assert.Equal(t, models.RegionEgypt, stored.ClientRegion)
	assert.Equal(t, models.UrgencyNormal, stored.Urgency)
}

func TestService_Calculation_OwnershipHidden(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, stored, err := svc.Estimate(context.Background(), 7, baselineRequest())
	require.NoError(t, err)

	// The owner can read it.
	calc, err := svc.Calculation(context.Background(), stored.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, calc.ID)

	// Anyone else gets the same answer as for a missing record.
	_, err = svc.Calculation(context.Background(), stored.ID, 8)
	assert.ErrorIs(t, err, models.ErrCalculationNotFound)
}

func TestService_UpdateCalculation_EmptyPatchRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, stored, err := svc.Estimate(context.Background(), 7, baselineRequest())
	require.NoError(t, err)

	_, err = svc.UpdateCalculation(context.Background(), stored.ID, 7, &models.CalculationUpdate{})
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}

func TestService_UpdateCalculation_OwnerScoped(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, stored, err := svc.Estimate(context.Background(), 7, baselineRequest())
	require.NoError(t, err)

	rate := 300.0
	patch := &models.CalculationUpdate{PreferredRate: &rate}

	_, err = svc.UpdateCalculation(context.Background(), stored.ID, 9, patch)
	assert.ErrorIs(t, err, models.ErrCalculationNotFound)

	updated, err := svc.UpdateCalculation(context.Background(), stored.ID, 7, patch)
	require.NoError(t, err)
	require.NotNil(t, updated.PreferredRate)
	assert.Equal(t, 300.0, *updated.PreferredRate)
}

func TestService_SetFavorite_RoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, stored, err := svc.Estimate(context.Background(), 7, baselineRequest())
	require.NoError(t, err)

	flagged, err := svc.SetFavorite(context.Background(), stored.ID, 7, true)
	require.NoError(t, err)
	assert.True(t, flagged.IsFavorite)

	favorites, err := svc.Favorites(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, favorites, 1)

	unflagged, err := svc.SetFavorite(context.Background(), stored.ID, 7, false)
	require.NoError(t, err)
	assert.False(t, unflagged.IsFavorite)
}

func TestService_ByProjectType_RejectsUnknownType(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.ByProjectType(context.Background(), "blockchain", 0, 10)
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}
