// Package pricing implements the rule-based hourly rate engine.
//
// The engine is a deterministic multiplicative model: a baseline rate per
// project type scaled by five independent multipliers (complexity,
// experience, skills, client region, urgency), then split into three
// ordered tiers. It is pure and side-effect-free, so it is safe to call
// concurrently from any number of goroutines.
package pricing

import (
	"math"

	"freelance-rate-engine/internal/models"
)

// minimumFloorEGP is the absolute lower bound for the minimum tier,
// preventing degenerate near-zero quotes no matter how low the
// multiplicative product falls.
const minimumFloorEGP = 80.0

// Tier ratios relative to the competitive value.
const (
	minimumRatio = 0.8
	premiumRatio = 1.3
)

// BaseRate returns the baseline hourly rate in EGP for a project type.
// Every enumerated category has its own case; the default arm is a
// defensive fallback that is unreachable after validation.
func BaseRate(projectType models.ProjectType) float64 {
	switch projectType {
	case models.ProjectTypeWebDevelopment:
		return 250.0
	case models.ProjectTypeMobileDevelopment:
		return 280.0
	case models.ProjectTypeDesign:
		return 220.0
	case models.ProjectTypeWriting:
		return 180.0
	case models.ProjectTypeMarketing:
		return 200.0
	case models.ProjectTypeConsulting:
		return 300.0
	case models.ProjectTypeDataAnalysis:
		return 260.0
	case models.ProjectTypeOther:
		return 200.0
	default:
		return 200.0
	}
}

// ComplexityMultiplier scales the base rate by how demanding the project is.
func ComplexityMultiplier(complexity models.ProjectComplexity) float64 {
	switch complexity {
	case models.ComplexitySimple:
		return 0.90
	case models.ComplexityModerate:
		return 1.00
	case models.ComplexityComplex:
		return 1.20
	case models.ComplexityEnterprise:
		return 1.40
	default:
		return 1.00
	}
}

// ExperienceMultiplier is a step function over years of experience.
func ExperienceMultiplier(years int) float64 {
	switch {
	case years < 1:
		return 0.80
	case years < 3:
		return 0.90
	case years < 5:
		return 1.00
	case years < 8:
		return 1.15
	default:
		return 1.30
	}
}

// SkillsMultiplier is a step function over the number of relevant skills.
func SkillsMultiplier(count int) float64 {
	switch {
	case count <= 2:
		return 0.95
	case count <= 5:
		return 1.00
	case count <= 8:
		return 1.08
	default:
		return 1.15
	}
}

// RegionMultiplier reflects what the client's market will bear.
func RegionMultiplier(region models.ClientRegion) float64 {
	switch region {
	case models.RegionEgypt:
		return 1.00
	case models.RegionMENA:
		return 1.10
	case models.RegionGlobal:
		return 1.60
	case models.RegionEurope:
		return 1.80
	case models.RegionUSA:
		return 2.00
	default:
		return 1.00
	}
}

// UrgencyMultiplier applies a rush premium for tight deadlines.
func UrgencyMultiplier(urgency models.Urgency) float64 {
	switch urgency {
	case models.UrgencyRush:
		return 1.15
	default:
		return 1.00
	}
}

// roundEGP rounds to the nearest whole EGP, halves away from zero
// (round-half-up). The convention is pinned by tests; all tier amounts
// are non-negative so Floor(v+0.5) is sufficient.
func roundEGP(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Calculate computes the three hourly rate tiers for a validated request.
//
// It assumes the request has passed models.ValidateRateRequest and does
// not re-validate. Identical input always yields identical output: no
// clock, randomness, or external state is consulted.
func Calculate(req *models.RateRequest) models.RateResult {
	value := BaseRate(req.ProjectType) *
		ComplexityMultiplier(req.ProjectComplexity) *
		ExperienceMultiplier(req.ExperienceYears) *
		SkillsMultiplier(req.SkillsCount) *
		RegionMultiplier(req.ClientRegion) *
		UrgencyMultiplier(req.Urgency)

	return models.RateResult{
		MinimumRate:     roundEGP(math.Max(minimumFloorEGP, value*minimumRatio)),
		CompetitiveRate: roundEGP(value),
		PremiumRate:     roundEGP(value * premiumRatio),
		Currency:        models.CurrencyEGP,
		Method:          models.MethodRuleBased,
		Rationale:       models.RateRationale,
	}
}
