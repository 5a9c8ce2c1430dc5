// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package validation

import (
	"errors"
	"strings"
	"testing"
)

type sampleRequest struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"required,min=10"`
	Category string `validate:"omitempty,category"`
}

func TestValidateStruct_Valid(t *testing.T) {
	req := sampleRequest{
		Name:  "Asha",
		Email: "asha@example.com",
		Phone: "9876543210",
	}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestValidateStruct_CollectsFieldErrors(t *testing.T) {
	req := sampleRequest{Email: "not-an-email", Phone: "123"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var ve *RequestValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *RequestValidationError, got %T", err)
	}
	if len(ve.Fields()) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", len(ve.Fields()), ve.Fields())
	}

	byField := map[string]FieldError{}
	for _, f := range ve.Fields() {
		byField[f.Field] = f
	}
	if f := byField["Name"]; f.Tag != "required" {
		t.Errorf("Name: expected required failure, got %+v", f)
	}
	if f := byField["Email"]; f.Tag != "email" {
		t.Errorf("Email: expected email failure, got %+v", f)
	}
	if f := byField["Phone"]; !strings.Contains(f.Message, "at least 10 characters") {
		t.Errorf("Phone: unexpected message %q", f.Message)
	}
}

func TestValidateStruct_CategoryValidator(t *testing.T) {
	req := sampleRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Phone:    "9876543210",
		Category: "electronics",
	}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected category failure")
	}
	if !strings.Contains(err.Error(), "valid product category") {
		t.Errorf("unexpected message: %v", err)
	}

	req.Category = "beverages"
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("valid category rejected: %v", err)
	}
}

type paymentRequest struct {
	Method string `validate:"required,payment_method"`
}

func TestValidateStruct_PaymentMethodValidator(t *testing.T) {
	for _, m := range []string{"razorpay", "stripe", "cash", "cod"} {
		if err := ValidateStruct(&paymentRequest{Method: m}); err != nil {
			t.Errorf("method %s rejected: %v", m, err)
		}
	}
	if err := ValidateStruct(&paymentRequest{Method: "paypal"}); err == nil {
		t.Error("unknown payment method accepted")
	}
}
