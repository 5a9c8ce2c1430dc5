// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package api

import "github.com/rajat-k-27/dishari/internal/models"

// Auth requests.

// RegisterRequest creates a customer account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest exchanges credentials for a session.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Product requests.

// ProductRequest creates a product (admin).
type ProductRequest struct {
	Title       string                `json:"title" validate:"required,min=2,max=200"`
	Description string                `json:"description" validate:"required,max=5000"`
	Price       float64               `json:"price" validate:"required,gt=0"`
	Category    string                `json:"category" validate:"required,category"`
	Stock       int                   `json:"stock" validate:"gte=0"`
	Images      []models.ProductImage `json:"images"`
	Featured    bool                  `json:"featured"`
	Active      *bool                 `json:"active"`
}

// ProductUpdateRequest partially updates a product (admin). Absent
// fields are left untouched.
type ProductUpdateRequest struct {
	Title       *string                `json:"title" validate:"omitempty,min=2,max=200"`
	Description *string                `json:"description" validate:"omitempty,max=5000"`
	Price       *float64               `json:"price" validate:"omitempty,gt=0"`
	Category    *string                `json:"category" validate:"omitempty,category"`
	Stock       *int                   `json:"stock" validate:"omitempty,gte=0"`
	Images      *[]models.ProductImage `json:"images"`
	Featured    *bool                  `json:"featured"`
	Active      *bool                  `json:"active"`
}

// Order requests.

// OrderItemRequest is one requested line. Price and title are looked
// up server-side; the client submits only product and quantity.
type OrderItemRequest struct {
	ProductID string `json:"product" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// AddressRequest is the shipping address block.
type AddressRequest struct {
	Street  string `json:"street" validate:"required,max=300"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	ZipCode string `json:"zipCode" validate:"required,min=4,max=12"`
	Country string `json:"country" validate:"required,max=100"`
}

// CustomerInfoRequest is the customer contact block.
type CustomerInfoRequest struct {
	Name    string         `json:"name" validate:"required,min=2,max=100"`
	Email   string         `json:"email" validate:"required,email"`
	Phone   string         `json:"phone" validate:"required,min=10,max=15"`
	Address AddressRequest `json:"address" validate:"required"`
}

// CreateOrderRequest places an order.
type CreateOrderRequest struct {
	CustomerInfo  CustomerInfoRequest `json:"customerInfo" validate:"required"`
	Items         []OrderItemRequest  `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string              `json:"paymentMethod" validate:"required,payment_method"`
	Notes         string              `json:"notes" validate:"max=1000"`
}

// UpdateOrderStatusRequest is the admin status transition.
type UpdateOrderStatusRequest struct {
	OrderStatus string `json:"orderStatus" validate:"required,order_status"`
	Notes       string `json:"notes" validate:"max=1000"`
}

// VerifyPaymentRequest is the checkout-callback verification payload.
type VerifyPaymentRequest struct {
	OrderID           string `json:"orderId" validate:"required"`
	RazorpayOrderID   string `json:"razorpayOrderId" validate:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" validate:"required"`
	RazorpaySignature string `json:"razorpaySignature" validate:"required"`
}

// Contact requests.

// ContactRequest is a public contact form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,min=10,max=15"`
	Subject string `json:"subject" validate:"required,min=2,max=200"`
	Message string `json:"message" validate:"required,min=5,max=5000"`
}

// ContactUpdateRequest is the admin triage update.
type ContactUpdateRequest struct {
	Status     *string `json:"status" validate:"omitempty,contact_status"`
	AdminNotes *string `json:"adminNotes" validate:"omitempty,max=5000"`
}

// Cart requests.

// CartAddRequest adds a product to the session cart.
type CartAddRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CartUpdateRequest sets a line's quantity; zero or less removes it.
type CartUpdateRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"`
}
