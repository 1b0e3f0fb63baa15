package pricing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"freelance-rate-engine/internal/models"
)

// CalculationStore persists rate calculations. Implemented by
// database.CalculationRepository; the interface exists so the service
// can be exercised without a live database.
type CalculationStore interface {
	Create(ctx context.Context, data *models.CalculationCreate) (*models.RateCalculation, error)
	GetByID(ctx context.Context, id int64) (*models.RateCalculation, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]models.RateCalculation, error)
	Update(ctx context.Context, id, ownerID int64, patch *models.CalculationUpdate) (*models.RateCalculation, error)
	Delete(ctx context.Context, id, ownerID int64) error
	ListFavorites(ctx context.Context, userID int64) ([]models.RateCalculation, error)
	SetFavorite(ctx context.Context, id, ownerID int64, favorite bool) (*models.RateCalculation, error)
	ListByProjectType(ctx context.Context, projectType models.ProjectType, offset, limit int) ([]models.RateCalculation, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	ListRecent(ctx context.Context, limit int) ([]models.RateCalculation, error)
}

// Service orchestrates rate computation and calculation history.
type Service struct {
	store  CalculationStore
	logger *zap.Logger
}

// NewService creates a new pricing service.
func NewService(store CalculationStore, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Estimate validates the request, computes the rate tiers, and persists
// the calculation under the given user. A request that fails validation
// produces no stored record.
func (s *Service) Estimate(ctx context.Context, userID int64, req *models.RateRequest) (*models.RateResult, *models.RateCalculation, error) {
	req.Normalize()
	if err := models.ValidateRateRequest(req); err != nil {
		return nil, nil, err
	}

	result := Calculate(req)

	stored, err := s.store.Create(ctx, &models.CalculationCreate{
		UserID:  userID,
		Request: *req,
		Result:  result,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save calculation: %w", err)
	}

	s.logger.Info("Rate calculated",
		zap.Int64("user_id", userID),
		zap.Int64("calculation_id", stored.ID),
		zap.String("project_type", string(req.ProjectType)),
		zap.Float64("competitive_rate", result.CompetitiveRate),
	)

	return &result, stored, nil
}

// Calculation returns a single calculation if it belongs to ownerID.
// A record owned by someone else is reported as not found so existence
// is never revealed to non-owners.
func (s *Service) Calculation(ctx context.Context, id, ownerID int64) (*models.RateCalculation, error) {
	calc, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if calc.UserID != ownerID {
		return nil, models.ErrCalculationNotFound
	}
	return calc, nil
}

// History lists a user's calculations, newest first.
func (s *Service) History(ctx context.Context, userID int64, offset, limit int) ([]models.RateCalculation, error) {
	return s.store.ListByUser(ctx, userID, offset, limit)
}

// HistoryCount returns the total number of calculations for a user.
func (s *Service) HistoryCount(ctx context.Context, userID int64) (int, error) {
	return s.store.CountByUser(ctx, userID)
}

// UpdateCalculation applies an owner-scoped partial patch.
func (s *Service) UpdateCalculation(ctx context.Context, id, ownerID int64, patch *models.CalculationUpdate) (*models.RateCalculation, error) {
	if patch.IsEmpty() {
		return nil, models.NewValidationError("body", "no updatable fields provided")
	}
	return s.store.Update(ctx, id, ownerID, patch)
}

// DeleteCalculation permanently removes an owner's calculation.
func (s *Service) DeleteCalculation(ctx context.Context, id, ownerID int64) error {
	return s.store.Delete(ctx, id, ownerID)
}

// Favorites lists a user's favorite calculations, newest first.
func (s *Service) Favorites(ctx context.Context, userID int64) ([]models.RateCalculation, error) {
	return s.store.ListFavorites(ctx, userID)
}

// SetFavorite flags or unflags a calculation. The ownership check is
// atomic with the mutation in the store.
func (s *Service) SetFavorite(ctx context.Context, id, ownerID int64, favorite bool) (*models.RateCalculation, error) {
	return s.store.SetFavorite(ctx, id, ownerID, favorite)
}

// Recent lists the newest calculations across all users. Read-only
// administrative view.
func (s *Service) Recent(ctx context.Context, limit int) ([]models.RateCalculation, error) {
	return s.store.ListRecent(ctx, limit)
}

// ByProjectType lists calculations for one project type across all
// users, newest first. Read-only administrative view.
func (s *Service) ByProjectType(ctx context.Context, projectType models.ProjectType, offset, limit int) ([]models.RateCalculation, error) {
	pt := projectType
	if !pt.IsValid() {
		return nil, models.NewValidationError("project_type",
			fmt.Sprintf("unknown project type %q", string(projectType)))
	}
	return s.store.ListByProjectType(ctx, pt, offset, limit)
}
