// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rajat-k-27/dishari/internal/database"
	"github.com/rajat-k-27/dishari/internal/email"
	"github.com/rajat-k-27/dishari/internal/logging"
	"github.com/rajat-k-27/dishari/internal/metrics"
	"github.com/rajat-k-27/dishari/internal/models"
	"github.com/rajat-k-27/dishari/internal/ws"
)

// CreateOrder places an order. Line items are priced from the current
// catalog, never from the client. COD orders reserve stock immediately
// with atomic conditional decrements; online orders leave stock
// untouched until payment verification succeeds.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)

	var req CreateOrderRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	method := models.PaymentMethod(req.PaymentMethod)

	items, err := h.buildOrderItems(r.Context(), req.Items)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		WriteError(w, r, http.StatusUnauthorized, CodeUnauthorized, "invalid session")
		return
	}

	order := &models.Order{
		UserID: userID,
		CustomerInfo: models.CustomerInfo{
			Name:  req.CustomerInfo.Name,
			Email: req.CustomerInfo.Email,
			Phone: req.CustomerInfo.Phone,
			Address: models.Address{
				Street:  req.CustomerInfo.Address.Street,
				City:    req.CustomerInfo.Address.City,
				State:   req.CustomerInfo.Address.State,
				ZipCode: req.CustomerInfo.Address.ZipCode,
				Country: req.CustomerInfo.Address.Country,
			},
		},
		Items:         items,
		TotalAmount:   models.ItemsTotal(items),
		PaymentMethod: method,
		PaymentStatus: models.PaymentPending,
		OrderStatus:   models.OrderPending,
		Notes:         req.Notes,
	}

	if !method.IsOnline() {
		// COD reserves stock at creation. Decrement line by line; if a
		// later line fails, return the earlier reservations.
		decremented := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			if err := h.products.DecrementStock(r.Context(), it.ProductID.Hex(), it.Quantity); err != nil {
				h.rollbackDecrements(r.Context(), decremented)
				if errors.Is(err, database.ErrInsufficientStock) {
					metrics.StockDecrementFailures.Inc()
				}
				writeStoreError(w, r, err)
				return
			}
			decremented = append(decremented, it)
		}
		order.OrderStatus = models.OrderProcessing
	}

	if err := h.orders.Create(r.Context(), order); err != nil {
		if !method.IsOnline() {
			h.rollbackDecrements(r.Context(), order.Items)
		}
		writeStoreError(w, r, err)
		return
	}

	metrics.OrdersCreated.WithLabelValues(string(method)).Inc()

	// The cart served its purpose; a failed clear only means a stale
	// cart, not a broken order.
	if h.carts != nil {
		if err := h.carts.Clear(r.Context(), claims.UserID); err != nil {
			ctxLogger := logging.Ctx(r.Context())
			ctxLogger.Warn().Err(err).Msg("cart clear failed")
		}
	}

	if h.events != nil {
		h.events.Broadcast(ws.EventOrderCreated, order)
	}

	// COD is confirmed immediately; online orders get their mail after
	// payment verification.
	if h.mailer != nil && !method.IsOnline() {
		o := *order
		email.SendAsync(func(ctx context.Context) error {
			err := h.mailer.SendOrderConfirmation(ctx, &o)
			h.countEmail("order_confirmation", err)
			return err
		})
	}

	WriteJSON(w, r, http.StatusCreated, order)
}

// buildOrderItems resolves requested lines against the catalog,
// snapshotting title, price, and image. Missing or inactive products
// fail the whole order; stock is only advisory here for online methods
// but checked so obviously doomed orders fail fast.
func (h *Handlers) buildOrderItems(ctx context.Context, reqs []OrderItemRequest) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(reqs))
	for _, line := range reqs {
		p, err := h.products.Get(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.Active {
			return nil, database.ErrNotFound
		}
		if p.Stock < line.Quantity {
			return nil, database.ErrInsufficientStock
		}
		items = append(items, models.OrderItem{
			ProductID: p.ID,
			Title:     p.Title,
			Price:     p.Price,
			Quantity:  line.Quantity,
			Image:     p.FirstImageURL(),
		})
	}
	return items, nil
}

// rollbackDecrements returns reserved stock after a partial failure.
func (h *Handlers) rollbackDecrements(ctx context.Context, items []models.OrderItem) {
	for _, it := range items {
		if err := h.products.IncrementStock(ctx, it.ProductID.Hex(), it.Quantity); err != nil {
			ctxLogger := logging.Ctx(ctx)
			ctxLogger.Error().Err(err).
				Str("product", it.ProductID.Hex()).
				Int("quantity", it.Quantity).
				Msg("stock rollback failed")
		}
	}
}

// ListMyOrders returns the signed-in user's orders, newest first.
func (h *Handlers) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)
	orders, err := h.orders.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, orders)
}

// GetOrder returns one order. Owner or admin only.
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOwnedOrder(w, r)
	if !ok {
		return
	}
	WriteJSON(w, r, http.StatusOK, order)
}

// AdminListOrders returns all orders, optionally filtered by status.
func (h *Handlers) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	filter := database.OrderFilter{}
	if s := r.URL.Query().Get("status"); s != "" {
		if !models.ValidOrderStatus(s) {
			WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "unknown order status")
			return
		}
		filter.Status = s
	}
	orders, err := h.orders.List(r.Context(), filter)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, orders)
}

// AdminUpdateOrderStatus moves an order through the status machine.
// Delivering a COD order collects its payment, so paymentStatus flips
// to paid with a timestamp.
func (h *Handlers) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderStatusRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	next := models.OrderStatus(req.OrderStatus)

	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	if !models.CanTransition(order.OrderStatus, next) {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest,
			"cannot move order from "+string(order.OrderStatus)+" to "+string(next))
		return
	}

	upd := database.OrderStatusUpdate{OrderStatus: &next}
	if req.Notes != "" {
		upd.Notes = &req.Notes
	}
	if next == models.OrderCancelled {
		by := models.CancelledByAdmin
		upd.CancelledBy = &by
		metrics.OrdersCancelled.WithLabelValues(by).Inc()
	}
	if next == models.OrderDelivered &&
		(order.PaymentMethod == models.PaymentCOD || order.PaymentMethod == models.PaymentCash) &&
		order.PaymentStatus != models.PaymentPaid {
		paid := models.PaymentPaid
		upd.PaymentStatus = &paid
	}

	updated, err := h.orders.UpdateStatus(r.Context(), order.ID.Hex(), upd)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	if h.events != nil {
		h.events.Broadcast(ws.EventOrderUpdated, updated)
	}
	WriteJSON(w, r, http.StatusOK, updated)
}

// CancelOrder is the user-initiated cancellation. Not permitted once
// the order has shipped. Reserved stock is deliberately not re-credited
// on cancellation.
func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOwnedOrder(w, r)
	if !ok {
		return
	}

	if !models.Cancellable(order.OrderStatus) {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest,
			"order can no longer be cancelled")
		return
	}

	claims := mustClaims(r)
	by := models.CancelledByUser
	if claims.Role == models.RoleAdmin {
		by = models.CancelledByAdmin
	}

	cancelled := models.OrderCancelled
	updated, err := h.orders.UpdateStatus(r.Context(), order.ID.Hex(), database.OrderStatusUpdate{
		OrderStatus: &cancelled,
		CancelledBy: &by,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	metrics.OrdersCancelled.WithLabelValues(by).Inc()

	if h.events != nil {
		h.events.Broadcast(ws.EventOrderUpdated, updated)
	}
	WriteJSON(w, r, http.StatusOK, updated)
}

// loadOwnedOrder loads the order in the URL and enforces that the
// caller owns it or is an admin. Writes the error response itself when
// returning ok=false.
func (h *Handlers) loadOwnedOrder(w http.ResponseWriter, r *http.Request) (*models.Order, bool) {
	claims := mustClaims(r)

	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return nil, false
	}
	if order.UserID.Hex() != claims.UserID && claims.Role != models.RoleAdmin {
		WriteError(w, r, http.StatusForbidden, CodeForbidden, "not your order")
		return nil, false
	}
	return order, true
}

// countEmail records the outcome of a background send.
func (h *Handlers) countEmail(kind string, err error) {
	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultError
	}
	metrics.EmailsSent.WithLabelValues(kind, result).Inc()
}
