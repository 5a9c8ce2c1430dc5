// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package api

import (
	"net/http"

	"github.com/rajat-k-27/dishari/internal/cart"
)

// cartView decorates the stored cart with derived totals.
type cartView struct {
	Items      map[string]cart.Item `json:"items"`
	TotalPrice float64              `json:"totalPrice"`
	TotalItems int                  `json:"totalItems"`
}

func viewOf(c cart.Cart) cartView {
	return cartView{Items: c.Items, TotalPrice: c.TotalPrice(), TotalItems: c.TotalItems()}
}

// GetCart returns the signed-in user's cart with derived totals.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)
	c, err := h.carts.Get(r.Context(), claims.UserID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, viewOf(c))
}

// AddToCart inserts or increments a line, snapshotting current title,
// price, image, and stock from the catalog.
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)

	var req CartAddRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.products.Get(r.Context(), req.ProductID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if !p.Active {
		WriteError(w, r, http.StatusNotFound, CodeNotFound, "resource not found")
		return
	}

	c, err := h.carts.Get(r.Context(), claims.UserID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	c = c.Add(cart.Item{
		ProductID: p.ID.Hex(),
		Title:     p.Title,
		Price:     p.Price,
		Image:     p.FirstImageURL(),
		Stock:     p.Stock,
	}, req.Quantity)

	if err := h.carts.Save(r.Context(), claims.UserID, c); err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, viewOf(c))
}

// UpdateCartItem sets a line's quantity; zero or less removes the line.
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)

	var req CartUpdateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.carts.Get(r.Context(), claims.UserID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	c = c.UpdateQuantity(req.ProductID, req.Quantity)

	if err := h.carts.Save(r.Context(), claims.UserID, c); err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, viewOf(c))
}

// RemoveCartItem deletes a line.
func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)

	var req CartUpdateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.carts.Get(r.Context(), claims.UserID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	c = c.Remove(req.ProductID)

	if err := h.carts.Save(r.Context(), claims.UserID, c); err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, viewOf(c))
}

// ClearCart empties the cart.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)
	if err := h.carts.Clear(r.Context(), claims.UserID); err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, viewOf(cart.New()))
}
