package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freelance-rate-engine/internal/models"
	"freelance-rate-engine/internal/services/pricing"
)

func baselineRequest() *models.RateRequest {
	return &models.RateRequest{
		ProjectType:       models.ProjectTypeWebDevelopment,
		ProjectComplexity: models.ComplexityModerate,
		EstimatedHours:    40,
		ExperienceYears:   3,
		SkillsCount:       5,
		ClientRegion:      models.RegionEgypt,
		Urgency:           models.UrgencyNormal,
	}
}

func TestCalculate_BaselineScenario(t *testing.T) {
	// All multipliers at 1.0: the result is the bare web development base rate.
	result := pricing.Calculate(baselineRequest())

	assert.Equal(t, 200.0, result.MinimumRate)
	assert.Equal(t, 250.0, result.CompetitiveRate)
	assert.Equal(t, 325.0, result.PremiumRate)
	assert.Equal(t, "EGP", result.Currency)
	assert.Equal(t, "rule_based", result.Method)
	assert.NotEmpty(t, result.Rationale)
}

func TestCalculate_USARushScenario(t *testing.T) {
	// 250 * 2.00 * 1.15 = 575; premium 747.5 rounds half-up to 748.
	req := baselineRequest()
	req.ClientRegion = models.RegionUSA
	req.Urgency = models.UrgencyRush

	result := pricing.Calculate(req)

	assert.Equal(t, 460.0, result.MinimumRate)
	assert.Equal(t, 575.0, result.CompetitiveRate)
	assert.Equal(t, 748.0, result.PremiumRate)
}

func TestCalculate_Deterministic(t *testing.T) {
	req := baselineRequest()
	req.ClientRegion = models.RegionEurope
	req.ProjectComplexity = models.ComplexityEnterprise

	first := pricing.Calculate(req)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, pricing.Calculate(req))
	}
}

func TestCalculate_TierInvariants(t *testing.T) {
	// Every enum combination must produce ordered, whole-EGP tiers with
	// the minimum never below the floor.
	for _, projectType := range models.ValidProjectTypes() {
		for _, complexity := range models.ValidComplexities() {
			for _, region := range models.ValidClientRegions() {
				for _, urgency := range models.ValidUrgencies() {
					for _, years := range []int{0, 2, 4, 7, 50} {
						req := &models.RateRequest{
							ProjectType:       projectType,
							ProjectComplexity: complexity,
							EstimatedHours:    40,
							ExperienceYears:   years,
							SkillsCount:       1,
							ClientRegion:      region,
							Urgency:           urgency,
						}
						result := pricing.Calculate(req)

						require.GreaterOrEqual(t, result.MinimumRate, 80.0)
						require.LessOrEqual(t, result.MinimumRate, result.CompetitiveRate)
						require.LessOrEqual(t, result.CompetitiveRate, result.PremiumRate)

						for _, rate := range []float64{result.MinimumRate, result.CompetitiveRate, result.PremiumRate} {
							require.Equal(t, float64(int64(rate)), rate, "tier rates are whole EGP")
						}
					}
				}
			}
		}
	}
}

func TestBaseRate_AllProjectTypes(t *testing.T) {
	expected := map[models.ProjectType]float64{
		models.ProjectTypeWebDevelopment:    250.0,
		models.ProjectTypeMobileDevelopment: 280.0,
		models.ProjectTypeDesign:            220.0,
		models.ProjectTypeWriting:           180.0,
		models.ProjectTypeMarketing:         200.0,
		models.ProjectTypeConsulting:        300.0,
		models.ProjectTypeDataAnalysis:      260.0,
		models.ProjectTypeOther:             200.0,
	}
	for projectType, rate := range expected {
		assert.Equal(t, rate, pricing.BaseRate(projectType), string(projectType))
	}
}

func TestExperienceMultiplier_StepBoundaries(t *testing.T) {
	cases := map[int]float64{
		0: 0.80, 1: 0.90, 2: 0.90, 3: 1.00, 4: 1.00,
		5: 1.15, 7: 1.15, 8: 1.30, 50: 1.30,
	}
	for years, multiplier := range cases {
		assert.Equal(t, multiplier, pricing.ExperienceMultiplier(years), "years=%d", years)
	}
}

func TestSkillsMultiplier_StepBoundaries(t *testing.T) {
	cases := map[int]float64{
		0: 0.95, 2: 0.95, 3: 1.00, 5: 1.00, 6: 1.08, 8: 1.08, 9: 1.15, 100: 1.15,
	}
	for count, multiplier := range cases {
		assert.Equal(t, multiplier, pricing.SkillsMultiplier(count), "count=%d", count)
	}
}

func TestRegionMultiplier_MarketOrdering(t *testing.T) {
	egypt := pricing.RegionMultiplier(models.RegionEgypt)
	mena := pricing.RegionMultiplier(models.RegionMENA)
	global := pricing.RegionMultiplier(models.RegionGlobal)
	europe := pricing.RegionMultiplier(models.RegionEurope)
	usa := pricing.RegionMultiplier(models.RegionUSA)

	assert.Equal(t, 1.00, egypt)
	assert.Less(t, egypt, mena)
	assert.Less(t, mena, global)
	assert.Less(t, global, europe)
	assert.Less(t, europe, usa)
	assert.Equal(t, 2.00, usa)
}

func TestUrgencyMultiplier_RushPremium(t *testing.T) {
	assert.Equal(t, 1.00, pricing.UrgencyMultiplier(models.UrgencyNormal))
	assert.Equal(t, 1.15, pricing.UrgencyMultiplier(models.UrgencyRush))
}

func TestComplexityMultiplier_Ordering(t *testing.T) {
	assert.Equal(t, 0.90, pricing.ComplexityMultiplier(models.ComplexitySimple))
	assert.Equal(t, 1.00, pricing.ComplexityMultiplier(models.ComplexityModerate))
	assert.Equal(t, 1.20, pricing.ComplexityMultiplier(models.ComplexityComplex))
	assert.Equal(t, 1.40, pricing.ComplexityMultiplier(models.ComplexityEnterprise))
}

func TestCalculate_HoursDoNotAffectHourlyRate(t *testing.T) {
	small := baselineRequest()
	small.EstimatedHours = 1
	large := baselineRequest()
	large.EstimatedHours = 2000

	assert.Equal(t, pricing.Calculate(small), pricing.Calculate(large))
}
