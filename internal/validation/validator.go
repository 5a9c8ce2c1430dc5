// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

// Package validation provides struct validation using go-playground/validator v10.
// It exposes a thread-safe singleton validator with custom validators for
// application-specific rules (product categories, payment methods, order
// statuses) and translates field errors into the API error envelope.
//
// Example usage:
//
//	type ContactRequest struct {
//	    Email string `validate:"required,email"`
//	    Phone string `validate:"required,min=10"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    var ve *validation.RequestValidationError
//	    if errors.As(err, &ve) {
//	        // ve.Fields() carries field-level detail for the 400 response
//	    }
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/rajat-k-27/dishari/internal/models"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// RequestValidationError is a collection of field validation failures.
type RequestValidationError struct {
	fields []FieldError
}

// Fields returns the field-level failures, suitable for the error
// envelope's details.
func (ve *RequestValidationError) Fields() []FieldError {
	return ve.fields
}

// Error implements the error interface with a combined message.
func (ve *RequestValidationError) Error() string {
	if len(ve.fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(ve.fields))
	for _, f := range ve.fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// getValidator returns the singleton validator, initializing it on first use.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Domain enums. Registration errors only occur for invalid
		// configurations of the validator itself.
		_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return models.ValidCategory(fl.Field().String())
		})
		_ = validate.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
			return models.ValidPaymentMethod(fl.Field().String())
		})
		_ = validate.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
			return models.ValidOrderStatus(fl.Field().String())
		})
		_ = validate.RegisterValidation("contact_status", func(fl validator.FieldLevel) bool {
			return models.ValidContactStatus(fl.Field().String())
		})
	})
	return validate
}

// ValidateStruct validates a struct against its validate tags.
// Returns *RequestValidationError when validation fails.
func ValidateStruct(s interface{}) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError: caller passed a non-struct.
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: messageFor(fe),
		})
	}
	return &RequestValidationError{fields: fields}
}

// messageFor builds a human-readable message for a field error.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s cannot be more than %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s cannot be more than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", fe.Field(), fe.Param())
	case "category":
		return fmt.Sprintf("%s must be a valid product category", fe.Field())
	case "payment_method":
		return fmt.Sprintf("%s must be a valid payment method", fe.Field())
	case "order_status":
		return fmt.Sprintf("%s must be a valid order status", fe.Field())
	case "contact_status":
		return fmt.Sprintf("%s must be a valid contact status", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
