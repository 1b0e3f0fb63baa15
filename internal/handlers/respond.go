// Package handlers implements the HTTP API surface of the freelance rate engine.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"freelance-rate-engine/internal/models"
	"freelance-rate-engine/internal/services/auth"
	"freelance-rate-engine/internal/utils"
)

// Response is the standard API envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// validate is the shared struct validator, reporting json field names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct runs the validator and converts the first failure into a
// models.ValidationError naming the offending field.
func checkStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return models.NewValidationError(fe.Field(), "fails constraint "+fe.Tag())
		}
		return models.NewValidationError("body", "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeData writes a successful envelope.
func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

// writeError maps domain errors onto HTTP statuses. Not-found responses
// are deliberately generic so record existence is never revealed to
// non-owners; store failures surface as retryable 503s.
func writeError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: ve.Error()})
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, Response{Success: false, Error: err.Error()})
	case errors.Is(err, models.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, models.ErrCalculationNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrInvoiceNotFound),
		errors.Is(err, models.ErrContractNotFound):
		writeJSON(w, http.StatusNotFound, Response{Success: false, Error: "not found"})
	default:
		utils.GetLogger().Error("Request failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "service temporarily unavailable"})
	}
}

// decodeJSON parses a request body, treating malformed JSON as a
// validation failure. Unknown extra fields are ignored, not rejected.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.NewValidationError("body", "invalid JSON payload")
	}
	return nil
}
