// Package models defines the data structures for the freelance rate engine.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrCalculationNotFound = errors.New("calculation not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrContractNotFound    = errors.New("contract not found")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
)

// ValidationError reports an input that violates an enum or numeric-bound
// constraint. It names the offending field so the caller can fix it; it is
// never a system fault.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Normalize cleans up enum inputs and applies the documented defaults:
// client_region falls back to egypt and urgency to normal when omitted.
func (r *RateRequest) Normalize() {
	r.ProjectType = ProjectType(normalizeTag(string(r.ProjectType)))
	r.ProjectComplexity = ProjectComplexity(normalizeTag(string(r.ProjectComplexity)))
	r.ClientRegion = ClientRegion(normalizeTag(string(r.ClientRegion)))
	r.Urgency = Urgency(normalizeTag(string(r.Urgency)))
	r.Location = strings.TrimSpace(r.Location)

	if r.ClientRegion == "" {
		r.ClientRegion = RegionEgypt
	}
	if r.Urgency == "" {
		r.Urgency = UrgencyNormal
	}
}

// normalizeTag lowercases an enum tag and unifies its separators.
func normalizeTag(tag string) string {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	return normalized
}

// ValidateRateRequest checks every field of a normalized request against
// its closed constraint. It must run before the pricing pipeline; the
// pipeline assumes valid input and does not re-validate.
func ValidateRateRequest(r *RateRequest) error {
	if !r.ProjectType.IsValid() {
		return NewValidationError("project_type",
			fmt.Sprintf("unknown project type %q", string(r.ProjectType)))
	}
	if !r.ProjectComplexity.IsValid() {
		return NewValidationError("project_complexity",
			fmt.Sprintf("unknown project complexity %q", string(r.ProjectComplexity)))
	}
	if r.EstimatedHours < MinEstimatedHours || r.EstimatedHours > MaxEstimatedHours {
		return NewValidationError("estimated_hours",
			fmt.Sprintf("must be between %d and %d", MinEstimatedHours, MaxEstimatedHours))
	}
	if r.ExperienceYears < MinExperienceYears || r.ExperienceYears > MaxExperienceYears {
		return NewValidationError("experience_years",
			fmt.Sprintf("must be between %d and %d", MinExperienceYears, MaxExperienceYears))
	}
	if r.SkillsCount < MinSkillsCount || r.SkillsCount > MaxSkillsCount {
		return NewValidationError("skills_count",
			fmt.Sprintf("must be between %d and %d", MinSkillsCount, MaxSkillsCount))
	}
	if !r.ClientRegion.IsValid() {
		return NewValidationError("client_region",
			fmt.Sprintf("unknown client region %q", string(r.ClientRegion)))
	}
	if !r.Urgency.IsValid() {
		return NewValidationError("urgency",
			fmt.Sprintf("unknown urgency %q", string(r.Urgency)))
	}
	return nil
}
