// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package api

import (
	"context"
	"io"

	"github.com/rajat-k-27/dishari/internal/cart"
	"github.com/rajat-k-27/dishari/internal/database"
	"github.com/rajat-k-27/dishari/internal/images"
	"github.com/rajat-k-27/dishari/internal/models"
	"github.com/rajat-k-27/dishari/internal/payment"
)

// The handler layer depends on these narrow interfaces rather than the
// concrete stores, so tests can swap in-memory fakes.

// ProductStore is the catalog persistence the handlers need.
type ProductStore interface {
	List(ctx context.Context, filter database.ProductFilter) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, id string, upd database.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	DecrementStock(ctx context.Context, id string, qty int) error
	IncrementStock(ctx context.Context, id string, qty int) error
}

// OrderStore is the order persistence the handlers need.
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter database.OrderFilter) ([]models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, upd database.OrderStatusUpdate) (*models.Order, error)
	MarkPaid(ctx context.Context, id string, details models.PaymentDetails) (*models.Order, error)
	SetRazorpayOrderID(ctx context.Context, id, razorpayOrderID string) error
	SetStripePaymentIntentID(ctx context.Context, id, intentID string) error
	FindByStripePaymentIntent(ctx context.Context, intentID string) (*models.Order, error)
	UpdatePaymentByStripeIntent(ctx context.Context, intentID string, paymentStatus models.PaymentStatus, orderStatus models.OrderStatus) (*models.Order, error)
}

// ContactStore is the contact message persistence the handlers need.
type ContactStore interface {
	Create(ctx context.Context, c *models.Contact) error
	List(ctx context.Context, status string) ([]models.Contact, error)
	Update(ctx context.Context, id string, upd database.ContactUpdate) (*models.Contact, error)
	Delete(ctx context.Context, id string) error
}

// UserStore is the account persistence the handlers need.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CartStore persists per-user carts.
type CartStore interface {
	Get(ctx context.Context, userID string) (cart.Cart, error)
	Save(ctx context.Context, userID string, c cart.Cart) error
	Clear(ctx context.Context, userID string) error
}

// PaymentGateway is the interactive checkout gateway.
type PaymentGateway interface {
	CreateOrder(amountRupees float64, receipt string) (*payment.GatewayOrder, error)
	FetchPayment(paymentID string) (*payment.PaymentInfo, error)
	VerifySignature(orderID, paymentID, signature string) error
}

// IntentGateway opens payment intents for the webhook-settled checkout.
type IntentGateway interface {
	CreateIntent(amountRupees float64, orderNumber string) (*payment.PaymentIntent, error)
}

// WebhookVerifier validates and decodes webhook deliveries.
type WebhookVerifier interface {
	Verify(payload []byte, sigHeader string) (*payment.WebhookEvent, error)
}

// Mailer sends confirmation mail.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
	SendContactConfirmation(ctx context.Context, contact *models.Contact) error
}

// Uploader stores and deletes hosted images.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader) (*images.Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// Broadcaster pushes order events to the admin dashboard feed.
type Broadcaster interface {
	Broadcast(eventType string, order *models.Order)
}
