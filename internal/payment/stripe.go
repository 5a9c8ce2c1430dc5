// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package payment

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/rajat-k-27/dishari/internal/logging"
)

// Webhook event kinds the order workflow reacts to. Everything else is
// acknowledged and dropped.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// WebhookEvent is the decoded, signature-verified payload the order
// workflow consumes.
type WebhookEvent struct {
	Type            string
	PaymentIntentID string
}

// PaymentIntent is the provider-side payment session handed to the
// client widget.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"` // paise
	Currency     string `json:"currency"`
}

// StripeGateway opens payment intents for the webhook-settled checkout.
type StripeGateway struct {
	api *client.API
	cb  *gobreaker.CircuitBreaker[*stripe.PaymentIntent]
}

// NewStripeGateway returns a gateway over the given secret API key.
func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)

	cb := gobreaker.NewCircuitBreaker[*stripe.PaymentIntent](gobreaker.Settings{
		Name:        "stripe",
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

	return &StripeGateway{api: api, cb: cb}
}

// CreateIntent opens a payment intent for the given amount in rupees.
// Stripe bills INR in paise, so the amount is scaled by 100 on the way
// out. The storefront order number rides along as metadata.
func (g *StripeGateway) CreateIntent(amountRupees float64, orderNumber string) (*PaymentIntent, error) {
	paise := int64(math.Round(amountRupees * 100))

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(paise),
		Currency: stripe.String(string(stripe.CurrencyINR)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_number", orderNumber)

	intent, err := g.cb.Execute(func() (*stripe.PaymentIntent, error) {
		return g.api.PaymentIntents.New(params)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrGatewayUnavailable
		}
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       paise,
		Currency:     "inr",
	}, nil
}

// StripeWebhook verifies and decodes incoming webhook deliveries.
type StripeWebhook struct {
	signingSecret string
}

// NewStripeWebhook returns a webhook verifier for the given endpoint
// signing secret.
func NewStripeWebhook(signingSecret string) *StripeWebhook {
	return &StripeWebhook{signingSecret: signingSecret}
}

// Verify checks the delivery signature against the signing secret and
// extracts the payment-intent reference. An invalid signature is an
// error; an event kind the workflow does not handle comes back with an
// empty PaymentIntentID and should be acknowledged without action.
func (s *StripeWebhook) Verify(payload []byte, sigHeader string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.signingSecret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook: %w", err)
	}

	ev := &WebhookEvent{Type: string(event.Type)}
	switch ev.Type {
	case EventPaymentSucceeded, EventPaymentFailed:
		var intent stripe.PaymentIntent
		if err := intent.UnmarshalJSON(event.Data.Raw); err != nil {
			return nil, fmt.Errorf("decode payment intent: %w", err)
		}
		ev.PaymentIntentID = intent.ID
	}
	return ev, nil
}
