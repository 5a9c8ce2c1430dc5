// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/sony/gobreaker/v2"

	"github.com/rajat-k-27/dishari/internal/logging"
)

// Gateway errors.
var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrBadSignature       = errors.New("payment signature mismatch")
)

// GatewayOrder is the provider-side payment session handed to the
// client widget.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// PaymentInfo is the subset of a fetched gateway payment the order
// record keeps.
type PaymentInfo struct {
	Method string // upi, card, netbanking, wallet...
	Status string
}

// RazorpayGateway creates gateway orders and verifies payment
// signatures for the interactive checkout.
type RazorpayGateway struct {
	client *razorpay.Client
	keyID  string
	secret string
	cb     *gobreaker.CircuitBreaker[map[string]interface{}]
}

// NewRazorpayGateway returns a gateway over the given API credentials.
func NewRazorpayGateway(keyID, secret string) *RazorpayGateway {
	cb := gobreaker.NewCircuitBreaker[map[string]interface{}](gobreaker.Settings{
		Name:        "razorpay",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, secret),
		keyID:  keyID,
		secret: secret,
		cb:     cb,
	}
}

// CreateOrder opens a gateway order for the given amount in rupees.
// Razorpay bills in paise, so the amount is scaled by 100 on the way
// out. The storefront order number travels as the gateway receipt.
func (g *RazorpayGateway) CreateOrder(amountRupees float64, receipt string) (*GatewayOrder, error) {
	paise := int64(math.Round(amountRupees * 100))

	data := map[string]interface{}{
		"amount":   paise,
		"currency": "INR",
		"receipt":  receipt,
	}

	body, err := g.cb.Execute(func() (map[string]interface{}, error) {
		return g.client.Order.Create(data, nil)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrGatewayUnavailable
		}
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("create gateway order: no id in response")
	}
	return &GatewayOrder{ID: id, Amount: paise, Currency: "INR", KeyID: g.keyID}, nil
}

// FetchPayment retrieves the authoritative payment record so the order
// keeps the instrument used (upi, card, ...).
func (g *RazorpayGateway) FetchPayment(paymentID string) (*PaymentInfo, error) {
	body, err := g.cb.Execute(func() (map[string]interface{}, error) {
		return g.client.Payment.Fetch(paymentID, nil, nil)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrGatewayUnavailable
		}
		return nil, fmt.Errorf("fetch payment: %w", err)
	}

	method, _ := body["method"].(string)
	status, _ := body["status"].(string)
	return &PaymentInfo{Method: method, Status: status}, nil
}

// VerifySignature checks the checkout callback signature: an
// HMAC-SHA256 of "orderID|paymentID" keyed with the API secret,
// hex-encoded. The comparison is constant-time and fails closed on any
// malformed input.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return ErrBadSignature
	}

	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}
