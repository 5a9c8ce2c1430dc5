// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentMethod identifies how an order is paid.
type PaymentMethod string

// Supported payment methods. Cash and COD take no online gateway;
// COD confirms the order immediately and collects payment at delivery.
const (
	PaymentRazorpay PaymentMethod = "razorpay"
	PaymentStripe   PaymentMethod = "stripe"
	PaymentCash     PaymentMethod = "cash"
	PaymentCOD      PaymentMethod = "cod"
)

// ValidPaymentMethod reports whether s is a known payment method.
func ValidPaymentMethod(s string) bool {
	switch PaymentMethod(s) {
	case PaymentRazorpay, PaymentStripe, PaymentCash, PaymentCOD:
		return true
	}
	return false
}

// IsOnline reports whether the method settles through a payment gateway.
// Online orders reserve stock only after payment verification succeeds.
func (m PaymentMethod) IsOnline() bool {
	return m == PaymentRazorpay || m == PaymentStripe
}

// PaymentStatus is the payment lifecycle enum.
type PaymentStatus string

// Payment statuses.
const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// OrderStatus is the order lifecycle enum.
type OrderStatus string

// Order statuses.
const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// validNext is the order-status transition table. Shipped and delivered
// orders can no longer be cancelled; delivered and cancelled are terminal.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderPending:    {OrderProcessing: true, OrderCancelled: true},
	OrderProcessing: {OrderShipped: true, OrderCancelled: true},
	OrderShipped:    {OrderDelivered: true},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// Cancellable reports whether an order in the given status may still be
// cancelled (by its owner or an admin).
func Cancellable(status OrderStatus) bool {
	return status != OrderShipped && status != OrderDelivered && status != OrderCancelled
}

// Actor tags recorded on cancellation for audit display.
const (
	CancelledByAdmin = "admin"
	CancelledByUser  = "user"
)

// Address is the shipping address snapshot inside customer info.
type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipCode" json:"zipCode"`
	Country string `bson:"country" json:"country"`
}

// CustomerInfo is the customer contact snapshot taken at order time.
// Later edits to the user account do not affect past orders.
type CustomerInfo struct {
	Name    string  `bson:"name" json:"name"`
	Email   string  `bson:"email" json:"email"`
	Phone   string  `bson:"phone" json:"phone"`
	Address Address `bson:"address" json:"address"`
}

// OrderItem is a denormalized snapshot of one ordered product. The
// product reference is lookup-only; product edits or deletion do not
// cascade into historical orders.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Title     string             `bson:"title" json:"title"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Image     string             `bson:"image" json:"image"`
}

// PaymentDetails is the gateway-specific payment sub-document.
type PaymentDetails struct {
	Method            string     `bson:"method,omitempty" json:"method,omitempty"` // upi, card, netbanking, wallet...
	RazorpayOrderID   string     `bson:"razorpayOrderId,omitempty" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string     `bson:"razorpayPaymentId,omitempty" json:"razorpayPaymentId,omitempty"`
	PaidAt            *time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
}

// Order is a placed order. TotalAmount equals the sum of line-item
// price×quantity at creation time and is never recomputed from current
// product prices afterward.
type Order struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber           string             `bson:"orderNumber" json:"orderNumber"`
	UserID                primitive.ObjectID `bson:"user" json:"user"`
	CustomerInfo          CustomerInfo       `bson:"customerInfo" json:"customerInfo"`
	Items                 []OrderItem        `bson:"items" json:"items"`
	TotalAmount           float64            `bson:"totalAmount" json:"totalAmount"`
	PaymentMethod         PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus         PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	OrderStatus           OrderStatus        `bson:"orderStatus" json:"orderStatus"`
	StripePaymentIntentID string             `bson:"stripePaymentIntentId,omitempty" json:"stripePaymentIntentId,omitempty"`
	PaymentDetails        PaymentDetails     `bson:"paymentDetails,omitempty" json:"paymentDetails,omitempty"`
	CancelledBy           string             `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	Notes                 string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ItemsTotal computes the sum of line-item price×quantity.
func ItemsTotal(items []OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// orderNumberPrefix is the fixed human-readable order number prefix.
const orderNumberPrefix = "DISH"

// FormatOrderNumber builds the human-readable order number for a given
// month and sequence value: DISH-YYYYMM-NNNNN.
func FormatOrderNumber(t time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%05d", orderNumberPrefix, t.Format("200601"), seq)
}

// OrderCounterKey is the per-year-month key for the atomic order number
// sequence, e.g. "orders:202608".
func OrderCounterKey(t time.Time) string {
	return "orders:" + t.Format("200601")
}
