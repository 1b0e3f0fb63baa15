// Package models defines the data structures for the freelance rate engine.
package models

import (
	"time"
)

// ContractStatus represents where a contract is in its lifecycle.
type ContractStatus string

const (
	ContractStatusDraft         ContractStatus = "draft"
	ContractStatusPendingReview ContractStatus = "pending_review"
	ContractStatusActive        ContractStatus = "active"
	ContractStatusCompleted     ContractStatus = "completed"
	ContractStatusTerminated    ContractStatus = "terminated"
)

// IsValid checks if the contract status is valid.
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusDraft, ContractStatusPendingReview, ContractStatusActive,
		ContractStatusCompleted, ContractStatusTerminated:
		return true
	}
	return false
}

// ContractType represents how a contract is billed.
type ContractType string

const (
	ContractTypeHourly     ContractType = "hourly"
	ContractTypeFixedPrice ContractType = "fixed_price"
	ContractTypeRetainer   ContractType = "retainer"
	ContractTypeMilestone  ContractType = "milestone"
)

// IsValid checks if the contract type is valid.
func (t ContractType) IsValid() bool {
	switch t {
	case ContractTypeHourly, ContractTypeFixedPrice, ContractTypeRetainer, ContractTypeMilestone:
		return true
	}
	return false
}

// Contract represents a freelancer agreement with a client.
type Contract struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"user_id" db:"user_id"`

	ContractNumber     string  `json:"contract_number" db:"contract_number"`
	ClientName         string  `json:"client_name" db:"client_name"`
	ClientEmail        *string `json:"client_email,omitempty" db:"client_email"`
	ProjectTitle       string  `json:"project_title" db:"project_title"`
	ProjectDescription *string `json:"project_description,omitempty" db:"project_description"`

	ContractType   ContractType `json:"contract_type" db:"contract_type"`
	HourlyRate     *float64     `json:"hourly_rate,omitempty" db:"hourly_rate"`
	FixedPrice     *float64     `json:"fixed_price,omitempty" db:"fixed_price"`
	RetainerAmount *float64     `json:"retainer_amount,omitempty" db:"retainer_amount"`
	Currency       string       `json:"currency" db:"currency"`

	StartDate      time.Time  `json:"start_date" db:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty" db:"end_date"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty" db:"estimated_hours"`

	Status       ContractStatus `json:"status" db:"status"`
	PaymentTerms *string        `json:"payment_terms,omitempty" db:"payment_terms"`
	Deliverables *string        `json:"deliverables,omitempty" db:"deliverables"`
	Milestones   *string        `json:"milestones,omitempty" db:"milestones"`

	TermsAndConditions *string `json:"terms_and_conditions,omitempty" db:"terms_and_conditions"`
	PDFKey             *string `json:"pdf_key,omitempty" db:"pdf_key"`
	SignedByClient     bool    `json:"signed_by_client" db:"signed_by_client"`
	SignedByFreelancer bool    `json:"signed_by_freelancer" db:"signed_by_freelancer"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ContractCreate is the data needed to create a new contract.
type ContractCreate struct {
	ClientName         string   `json:"client_name" validate:"required,max=200"`
	ClientEmail        *string  `json:"client_email,omitempty" validate:"omitempty,email"`
	ProjectTitle       string   `json:"project_title" validate:"required,max=300"`
	ProjectDescription *string  `json:"project_description,omitempty"`
	ContractType       string   `json:"contract_type" validate:"required,oneof=hourly fixed_price retainer milestone"`
	HourlyRate         *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gt=0"`
	FixedPrice         *float64 `json:"fixed_price,omitempty" validate:"omitempty,gt=0"`
	RetainerAmount     *float64 `json:"retainer_amount,omitempty" validate:"omitempty,gt=0"`
	StartDate          string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate            *string  `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EstimatedHours     *float64 `json:"estimated_hours,omitempty" validate:"omitempty,gt=0"`
	PaymentTerms       *string  `json:"payment_terms,omitempty"`
	Deliverables       *string  `json:"deliverables,omitempty"`
	Milestones         *string  `json:"milestones,omitempty"`
	TermsAndConditions *string  `json:"terms_and_conditions,omitempty"`
}

// ContractUpdate is a partial patch applied to an existing contract.
type ContractUpdate struct {
	ClientName         *string  `json:"client_name,omitempty" validate:"omitempty,max=200"`
	ClientEmail        *string  `json:"client_email,omitempty" validate:"omitempty,email"`
	ProjectTitle       *string  `json:"project_title,omitempty" validate:"omitempty,max=300"`
	ProjectDescription *string  `json:"project_description,omitempty"`
	HourlyRate         *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gt=0"`
	FixedPrice         *float64 `json:"fixed_price,omitempty" validate:"omitempty,gt=0"`
	RetainerAmount     *float64 `json:"retainer_amount,omitempty" validate:"omitempty,gt=0"`
	EndDate            *string  `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EstimatedHours     *float64 `json:"estimated_hours,omitempty" validate:"omitempty,gt=0"`
	Status             *string  `json:"status,omitempty" validate:"omitempty,oneof=draft pending_review active completed terminated"`
	PaymentTerms       *string  `json:"payment_terms,omitempty"`
	Deliverables       *string  `json:"deliverables,omitempty"`
	Milestones         *string  `json:"milestones,omitempty"`
	TermsAndConditions *string  `json:"terms_and_conditions,omitempty"`
	SignedByClient     *bool    `json:"signed_by_client,omitempty"`
	SignedByFreelancer *bool    `json:"signed_by_freelancer,omitempty"`
}
