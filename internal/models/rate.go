// Package models defines the data structures for the freelance rate engine.
package models

import (
	"time"
)

// Fixed constants for this version: a single currency and a single
// computation strategy.
const (
	CurrencyEGP     = "EGP"
	MethodRuleBased = "rule_based"
)

// RateRationale is the static explanation attached to every rule-based result.
const RateRationale = "Rule-based calculation using project complexity, experience, " +
	"skills, client region, and urgency."

// ProjectType represents the category of freelance work being priced.
type ProjectType string

const (
	ProjectTypeWebDevelopment    ProjectType = "web_development"
	ProjectTypeMobileDevelopment ProjectType = "mobile_development"
	ProjectTypeDesign            ProjectType = "design"
	ProjectTypeWriting           ProjectType = "writing"
	ProjectTypeMarketing         ProjectType = "marketing"
	ProjectTypeConsulting        ProjectType = "consulting"
	ProjectTypeDataAnalysis      ProjectType = "data_analysis"
	ProjectTypeOther             ProjectType = "other"
)

// ValidProjectTypes returns all valid project type values.
func ValidProjectTypes() []ProjectType {
	return []ProjectType{
		ProjectTypeWebDevelopment,
		ProjectTypeMobileDevelopment,
		ProjectTypeDesign,
		ProjectTypeWriting,
		ProjectTypeMarketing,
		ProjectTypeConsulting,
		ProjectTypeDataAnalysis,
		ProjectTypeOther,
	}
}

// IsValid checks if the project type is valid.
func (p ProjectType) IsValid() bool {
	for _, valid := range ValidProjectTypes() {
		if p == valid {
			return true
		}
	}
	return false
}

// ProjectComplexity represents how demanding a project is.
type ProjectComplexity string

const (
	ComplexitySimple     ProjectComplexity = "simple"
	ComplexityModerate   ProjectComplexity = "moderate"
	ComplexityComplex    ProjectComplexity = "complex"
	ComplexityEnterprise ProjectComplexity = "enterprise"
)

// ValidComplexities returns all valid project complexity values.
func ValidComplexities() []ProjectComplexity {
	return []ProjectComplexity{
		ComplexitySimple,
		ComplexityModerate,
		ComplexityComplex,
		ComplexityEnterprise,
	}
}

// IsValid checks if the complexity is valid.
func (c ProjectComplexity) IsValid() bool {
	for _, valid := range ValidComplexities() {
		if c == valid {
			return true
		}
	}
	return false
}

// ClientRegion represents where the paying client is located.
type ClientRegion string

const (
	RegionEgypt  ClientRegion = "egypt"
	RegionMENA   ClientRegion = "mena"
	RegionEurope ClientRegion = "europe"
	RegionUSA    ClientRegion = "usa"
	RegionGlobal ClientRegion = "global"
)

// ValidClientRegions returns all valid client region values.
func ValidClientRegions() []ClientRegion {
	return []ClientRegion{
		RegionEgypt,
		RegionMENA,
		RegionEurope,
		RegionUSA,
		RegionGlobal,
	}
}

// IsValid checks if the client region is valid.
func (r ClientRegion) IsValid() bool {
	for _, valid := range ValidClientRegions() {
		if r == valid {
			return true
		}
	}
	return false
}

// Urgency represents the delivery pressure on a project.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyRush   Urgency = "rush"
)

// ValidUrgencies returns all valid urgency values.
func ValidUrgencies() []Urgency {
	return []Urgency{UrgencyNormal, UrgencyRush}
}

// IsValid checks if the urgency is valid.
func (u Urgency) IsValid() bool {
	for _, valid := range ValidUrgencies() {
		if u == valid {
			return true
		}
	}
	return false
}

// Bounds for the numeric fields of a RateRequest. All ranges are inclusive.
const (
	MinEstimatedHours  = 1
	MaxEstimatedHours  = 2000
	MinExperienceYears = 0
	MaxExperienceYears = 50
	MinSkillsCount     = 0
	MaxSkillsCount     = 100
)

// RateRequest is the validated input to the rate calculation pipeline.
// Location is advisory metadata and does not affect the formula.
type RateRequest struct {
	ProjectType       ProjectType       `json:"project_type"`
	ProjectComplexity ProjectComplexity `json:"project_complexity"`
	EstimatedHours    int               `json:"estimated_hours"`
	ExperienceYears   int               `json:"experience_years"`
	SkillsCount       int               `json:"skills_count"`
	Location          string            `json:"location"`
	ClientRegion      ClientRegion      `json:"client_region"`
	Urgency           Urgency           `json:"urgency"`
}

// RateResult holds the three computed price tiers in EGP per hour.
type RateResult struct {
	MinimumRate     float64 `json:"minimum_rate"`
	CompetitiveRate float64 `json:"competitive_rate"`
	PremiumRate     float64 `json:"premium_rate"`
	Currency        string  `json:"currency"`
	Method          string  `json:"method"`
	Rationale       string  `json:"rationale"`
}

// RateCalculation is a persisted rate computation: the request as
// submitted plus the result as computed, owned by a single user.
type RateCalculation struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"user_id" db:"user_id"`

	// Input parameters
	ProjectType       ProjectType       `json:"project_type" db:"project_type"`
	ProjectComplexity ProjectComplexity `json:"project_complexity" db:"project_complexity"`
	EstimatedHours    int               `json:"estimated_hours" db:"estimated_hours"`
	ExperienceYears   int               `json:"experience_years" db:"experience_years"`
	SkillsCount       int               `json:"skills_count" db:"skills_count"`
	Location          string            `json:"location" db:"location"`
	ClientRegion      ClientRegion      `json:"client_region" db:"client_region"`
	Urgency           Urgency           `json:"urgency" db:"urgency"`

	// Computed results
	MinimumRate     float64 `json:"minimum_rate" db:"minimum_rate"`
	CompetitiveRate float64 `json:"competitive_rate" db:"competitive_rate"`
	PremiumRate     float64 `json:"premium_rate" db:"premium_rate"`
	Currency        string  `json:"currency" db:"currency"`

	// CalculationMethod is "rule_based" for every row today; the column
	// exists so a statistical method can coexist later.
	CalculationMethod string   `json:"calculation_method" db:"calculation_method"`
	ConfidenceScore   *float64 `json:"confidence_score,omitempty" db:"confidence_score"`
	Reasoning         *string  `json:"reasoning,omitempty" db:"reasoning"`

	// User preferences
	PreferredRate *float64 `json:"preferred_rate,omitempty" db:"preferred_rate"`
	IsFavorite    bool     `json:"is_favorite" db:"is_favorite"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CalculationCreate is the data needed to persist a new calculation.
type CalculationCreate struct {
	UserID  int64
	Request RateRequest
	Result  RateResult
}

// CalculationUpdate is a partial patch applied to an existing
// calculation by its owner. Nil fields are left untouched.
type CalculationUpdate struct {
	PreferredRate *float64 `json:"preferred_rate,omitempty"`
	Reasoning     *string  `json:"reasoning,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (u *CalculationUpdate) IsEmpty() bool {
	return u.PreferredRate == nil && u.Reasoning == nil
}
