// Package models defines the data structures for the freelance rate engine.
package models

import (
	"time"
)

// InvoiceStatus represents where an invoice is in its lifecycle.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// ValidInvoiceStatuses returns all valid invoice status values.
func ValidInvoiceStatuses() []InvoiceStatus {
	return []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusCancelled,
	}
}

// IsValid checks if the invoice status is valid.
func (s InvoiceStatus) IsValid() bool {
	for _, valid := range ValidInvoiceStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// Invoice represents a freelancer invoice to a client.
type Invoice struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"user_id" db:"user_id"`

	InvoiceNumber string  `json:"invoice_number" db:"invoice_number"`
	ClientName    string  `json:"client_name" db:"client_name"`
	ClientEmail   *string `json:"client_email,omitempty" db:"client_email"`
	ClientAddress *string `json:"client_address,omitempty" db:"client_address"`

	Subtotal    float64 `json:"subtotal" db:"subtotal"`
	TaxRate     float64 `json:"tax_rate" db:"tax_rate"`
	TaxAmount   float64 `json:"tax_amount" db:"tax_amount"`
	TotalAmount float64 `json:"total_amount" db:"total_amount"`
	Currency    string  `json:"currency" db:"currency"`

	IssueDate time.Time  `json:"issue_date" db:"issue_date"`
	DueDate   time.Time  `json:"due_date" db:"due_date"`
	PaidDate  *time.Time `json:"paid_date,omitempty" db:"paid_date"`

	Status       InvoiceStatus `json:"status" db:"status"`
	Notes        *string       `json:"notes,omitempty" db:"notes"`
	PaymentTerms *string       `json:"payment_terms,omitempty" db:"payment_terms"`

	PDFKey *string `json:"pdf_key,omitempty" db:"pdf_key"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// InvoiceCreate is the data needed to create a new invoice.
// The invoice number is assigned by the service, not the caller.
type InvoiceCreate struct {
	ClientName    string  `json:"client_name" validate:"required,max=200"`
	ClientEmail   *string `json:"client_email,omitempty" validate:"omitempty,email"`
	ClientAddress *string `json:"client_address,omitempty"`
	Subtotal      float64 `json:"subtotal" validate:"required,gt=0"`
	TaxRate       float64 `json:"tax_rate" validate:"gte=0,lte=1"`
	IssueDate     string  `json:"issue_date" validate:"required,datetime=2006-01-02"`
	DueDate       string  `json:"due_date" validate:"required,datetime=2006-01-02"`
	Notes         *string `json:"notes,omitempty"`
	PaymentTerms  *string `json:"payment_terms,omitempty"`
}

// InvoiceUpdate is a partial patch applied to an existing invoice.
type InvoiceUpdate struct {
	ClientName    *string  `json:"client_name,omitempty" validate:"omitempty,max=200"`
	ClientEmail   *string  `json:"client_email,omitempty" validate:"omitempty,email"`
	ClientAddress *string  `json:"client_address,omitempty"`
	Subtotal      *float64 `json:"subtotal,omitempty" validate:"omitempty,gt=0"`
	TaxRate       *float64 `json:"tax_rate,omitempty" validate:"omitempty,gte=0,lte=1"`
	DueDate       *string  `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status        *string  `json:"status,omitempty" validate:"omitempty,oneof=draft sent paid overdue cancelled"`
	Notes         *string  `json:"notes,omitempty"`
	PaymentTerms  *string  `json:"payment_terms,omitempty"`
}
