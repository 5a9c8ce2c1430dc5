// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rajat-k-27/dishari/internal/email"
	"github.com/rajat-k-27/dishari/internal/logging"
	"github.com/rajat-k-27/dishari/internal/metrics"
	"github.com/rajat-k-27/dishari/internal/models"
	"github.com/rajat-k-27/dishari/internal/payment"
	"github.com/rajat-k-27/dishari/internal/ws"
)

// createGatewayOrderRequest opens the gateway payment session for an
// existing storefront order.
type createGatewayOrderRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

// CreateRazorpayOrder opens a gateway order for a pending razorpay
// checkout. Owner only; the amount comes from the stored order, never
// the client.
func (h *Handlers) CreateRazorpayOrder(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)

	var req createGatewayOrderRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.orders.Get(r.Context(), req.OrderID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if order.UserID.Hex() != claims.UserID {
		WriteError(w, r, http.StatusForbidden, CodeForbidden, "not your order")
		return
	}
	if order.PaymentMethod != models.PaymentRazorpay {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "order is not a razorpay checkout")
		return
	}
	if order.PaymentStatus == models.PaymentPaid {
		WriteError(w, r, http.StatusConflict, CodeConflict, "order is already paid")
		return
	}

	gw, err := h.gateway.CreateOrder(order.TotalAmount, order.OrderNumber)
	if err != nil {
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Error().Err(err).Msg("create gateway order")
		WriteError(w, r, http.StatusBadGateway, CodeExternalService, "payment gateway unavailable")
		return
	}

	if err := h.orders.SetRazorpayOrderID(r.Context(), order.ID.Hex(), gw.ID); err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, gw)
}

// CreateStripeIntent opens a payment intent for a pending stripe
// checkout and stores its reference so the webhook consumer can settle
// the order later. Owner only; the amount comes from the stored order.
func (h *Handlers) CreateStripeIntent(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)

	var req createGatewayOrderRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.orders.Get(r.Context(), req.OrderID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if order.UserID.Hex() != claims.UserID {
		WriteError(w, r, http.StatusForbidden, CodeForbidden, "not your order")
		return
	}
	if order.PaymentMethod != models.PaymentStripe {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "order is not a stripe checkout")
		return
	}
	if order.PaymentStatus == models.PaymentPaid {
		WriteError(w, r, http.StatusConflict, CodeConflict, "order is already paid")
		return
	}

	intent, err := h.intents.CreateIntent(order.TotalAmount, order.OrderNumber)
	if err != nil {
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Error().Err(err).Msg("create payment intent")
		WriteError(w, r, http.StatusBadGateway, CodeExternalService, "payment gateway unavailable")
		return
	}

	if err := h.orders.SetStripePaymentIntentID(r.Context(), order.ID.Hex(), intent.ID); err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, intent)
}

// VerifyRazorpayPayment is the checkout callback. The signature check
// fails closed: any mismatch leaves the order untouched. Verification
// is idempotent; re-verifying a paid order acknowledges it without a
// second stock decrement.
func (h *Handlers) VerifyRazorpayPayment(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)

	var req VerifyPaymentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.orders.Get(r.Context(), req.OrderID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if order.UserID.Hex() != claims.UserID && claims.Role != models.RoleAdmin {
		WriteError(w, r, http.StatusForbidden, CodeForbidden, "not your order")
		return
	}

	if err := h.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature); err != nil {
		metrics.PaymentVerifications.WithLabelValues(metrics.ResultRejected).Inc()
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Warn().
			Str("order", order.OrderNumber).
			Msg("payment signature rejected")
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "payment verification failed")
		return
	}

	// Idempotency: the widget can deliver the callback more than once.
	if order.PaymentStatus == models.PaymentPaid {
		metrics.PaymentVerifications.WithLabelValues(metrics.ResultOK).Inc()
		WriteJSON(w, r, http.StatusOK, order)
		return
	}

	// The fetched payment is the authoritative record; if the gateway
	// cannot produce it the order is left untouched and the widget
	// retries the callback.
	info, err := h.gateway.FetchPayment(req.RazorpayPaymentID)
	if err != nil {
		metrics.PaymentVerifications.WithLabelValues(metrics.ResultError).Inc()
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Error().Err(err).
			Str("order", order.OrderNumber).
			Msg("payment fetch failed")
		WriteError(w, r, http.StatusBadGateway, CodeExternalService, "payment gateway unavailable")
		return
	}

	details := models.PaymentDetails{
		Method:            info.Method,
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
	}

	updated, err := h.orders.MarkPaid(r.Context(), order.ID.Hex(), details)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	metrics.PaymentVerifications.WithLabelValues(metrics.ResultOK).Inc()

	h.decrementPaidOrderStock(r.Context(), updated)

	if h.events != nil {
		h.events.Broadcast(ws.EventOrderUpdated, updated)
	}
	if h.mailer != nil {
		o := *updated
		email.SendAsync(func(ctx context.Context) error {
			err := h.mailer.SendOrderConfirmation(ctx, &o)
			h.countEmail("order_confirmation", err)
			return err
		})
	}

	WriteJSON(w, r, http.StatusOK, updated)
}

// decrementPaidOrderStock reserves stock for a just-paid online order.
// A line that can no longer be covered is logged and counted, not
// failed: the customer has paid, so fulfilment staff resolve the
// shortfall manually.
func (h *Handlers) decrementPaidOrderStock(ctx context.Context, order *models.Order) {
	for _, it := range order.Items {
		if err := h.products.DecrementStock(ctx, it.ProductID.Hex(), it.Quantity); err != nil {
			metrics.StockDecrementFailures.Inc()
			ctxLogger := logging.Ctx(ctx)
			ctxLogger.Error().Err(err).
				Str("order", order.OrderNumber).
				Str("product", it.ProductID.Hex()).
				Int("quantity", it.Quantity).
				Msg("post-payment stock decrement failed")
		}
	}
}

// maxWebhookBytes bounds webhook deliveries.
const maxWebhookBytes = 64 << 10

// StripeWebhook consumes signed gateway events. The signature is
// verified before the payload is trusted; unverifiable deliveries get
// 400 so the gateway retries, unhandled event kinds get 200 so it
// stops.
func (h *Handlers) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "unreadable payload")
		return
	}

	event, err := h.webhooks.Verify(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", metrics.ResultRejected).Inc()
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Warn().Err(err).Msg("webhook signature rejected")
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "webhook verification failed")
		return
	}

	switch event.Type {
	case payment.EventPaymentSucceeded:
		h.settleStripePayment(w, r, event, models.PaymentPaid, models.OrderProcessing)
	case payment.EventPaymentFailed:
		h.settleStripePayment(w, r, event, models.PaymentFailed, models.OrderPending)
	default:
		metrics.WebhookEvents.WithLabelValues(event.Type, metrics.ResultOK).Inc()
		WriteJSON(w, r, http.StatusOK, map[string]string{"message": "ignored"})
	}
}

// settleStripePayment applies a webhook outcome to the matching order.
// Deliveries are retried by the gateway, so a success event for an
// already-paid order is acknowledged without a second stock decrement.
func (h *Handlers) settleStripePayment(w http.ResponseWriter, r *http.Request, event *payment.WebhookEvent, pay models.PaymentStatus, status models.OrderStatus) {
	existing, err := h.orders.FindByStripePaymentIntent(r.Context(), event.PaymentIntentID)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(event.Type, metrics.ResultError).Inc()
		// An unknown intent is acknowledged: retrying will not make the
		// order appear.
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Warn().Err(err).
			Str("payment_intent", event.PaymentIntentID).
			Msg("webhook matched no order")
		WriteJSON(w, r, http.StatusOK, map[string]string{"message": "no matching order"})
		return
	}
	if pay == models.PaymentPaid && existing.PaymentStatus == models.PaymentPaid {
		metrics.WebhookEvents.WithLabelValues(event.Type, metrics.ResultOK).Inc()
		WriteJSON(w, r, http.StatusOK, map[string]string{"message": "already processed"})
		return
	}

	order, err := h.orders.UpdatePaymentByStripeIntent(r.Context(), event.PaymentIntentID, pay, status)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(event.Type, metrics.ResultError).Inc()
		writeStoreError(w, r, err)
		return
	}
	metrics.WebhookEvents.WithLabelValues(event.Type, metrics.ResultOK).Inc()

	if pay == models.PaymentPaid {
		h.decrementPaidOrderStock(r.Context(), order)
		if h.mailer != nil {
			o := *order
			email.SendAsync(func(ctx context.Context) error {
				err := h.mailer.SendOrderConfirmation(ctx, &o)
				h.countEmail("order_confirmation", err)
				return err
			})
		}
	}
	if h.events != nil {
		h.events.Broadcast(ws.EventOrderUpdated, order)
	}

	WriteJSON(w, r, http.StatusOK, map[string]string{
		"message": "processed",
		"order":   order.OrderNumber,
		"at":      time.Now().UTC().Format(time.RFC3339),
	})
}
