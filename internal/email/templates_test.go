// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package email

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rajat-k-27/dishari/internal/models"
)

func TestOrderConfirmationRender(t *testing.T) {
	order := &models.Order{
		OrderNumber: "DISH-202608-00042",
		CustomerInfo: models.CustomerInfo{
			Name:  "Asha",
			Email: "asha@example.com",
		},
		Items: []models.OrderItem{
			{Title: "Gel Pen", Price: 25, Quantity: 2},
			{Title: "Notebook", Price: 60, Quantity: 1},
		},
		TotalAmount:   110,
		PaymentMethod: models.PaymentCOD,
	}

	var body bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&body, orderConfirmationData(order)); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := body.String()

	for _, want := range []string{
		"DISH-202608-00042",
		"Asha",
		"Gel Pen",
		"₹50.00",  // 2 × 25
		"₹110.00", // total
		"cash on delivery",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered mail missing %q", want)
		}
	}
}

func TestOrderConfirmationOnlinePayment(t *testing.T) {
	order := &models.Order{
		OrderNumber:   "DISH-202608-00043",
		CustomerInfo:  models.CustomerInfo{Name: "Ravi", Email: "ravi@example.com"},
		Items:         []models.OrderItem{{Title: "Mouse", Price: 450, Quantity: 1}},
		TotalAmount:   450,
		PaymentMethod: models.PaymentRazorpay,
	}

	var body bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&body, orderConfirmationData(order)); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(body.String(), "cash on delivery") {
		t.Error("online order rendered the COD footer")
	}
	if !strings.Contains(body.String(), "payment has been received") {
		t.Error("online order missing paid footer")
	}
}

func TestContactConfirmationRender(t *testing.T) {
	contact := &models.Contact{
		Name:    "Meera",
		Email:   "meera@example.com",
		Subject: "Printing rates",
		Message: "What do you charge for color printouts?",
	}

	var body bytes.Buffer
	if err := contactConfirmationTmpl.Execute(&body, contact); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Meera", "Printing rates", "color printouts"} {
		if !strings.Contains(body.String(), want) {
			t.Errorf("rendered mail missing %q", want)
		}
	}
}

func TestNilMailerIsNoop(t *testing.T) {
	var m *Mailer
	if err := m.SendOrderConfirmation(context.Background(), &models.Order{}); err != nil {
		t.Errorf("nil mailer returned %v", err)
	}
	if err := m.SendContactConfirmation(context.Background(), &models.Contact{}); err != nil {
		t.Errorf("nil mailer returned %v", err)
	}
}
