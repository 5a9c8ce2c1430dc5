// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rajat-k-27/dishari/internal/database"
	"github.com/rajat-k-27/dishari/internal/logging"
	"github.com/rajat-k-27/dishari/internal/models"
)

// ListProducts returns the storefront catalog. Query parameters:
// category, featured=true|false, limit. Only active products are
// visible here; the admin listing shows everything.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := database.ProductFilter{ActiveOnly: true}
	h.listProducts(w, r, filter)
}

// AdminListProducts returns the full catalog including deactivated
// products.
func (h *Handlers) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	h.listProducts(w, r, database.ProductFilter{})
}

func (h *Handlers) listProducts(w http.ResponseWriter, r *http.Request, filter database.ProductFilter) {
	q := r.URL.Query()
	if c := q.Get("category"); c != "" {
		if !models.ValidCategory(c) {
			WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "unknown category")
			return
		}
		filter.Category = c
	}
	if f := q.Get("featured"); f != "" {
		featured := f == "true"
		filter.Featured = &featured
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.ParseInt(l, 10, 64)
		if err != nil || n < 1 || n > 200 {
			WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "limit must be between 1 and 200")
			return
		}
		filter.Limit = n
	}

	products, err := h.products.List(r.Context(), filter)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, products)
}

// GetProduct returns one product. Deactivated products are hidden from
// non-admin callers so stale links do not leak unlisted items.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if !p.Active {
		if claims := mustClaims(r); claims == nil || claims.Role != models.RoleAdmin {
			WriteError(w, r, http.StatusNotFound, CodeNotFound, "resource not found")
			return
		}
	}
	WriteJSON(w, r, http.StatusOK, p)
}

// CreateProduct adds a catalog item (admin).
func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	p := &models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    models.Category(req.Category),
		Stock:       req.Stock,
		Images:      req.Images,
		Featured:    req.Featured,
		Active:      active,
	}
	if err := h.products.Create(r.Context(), p); err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusCreated, p)
}

// UpdateProduct partially updates a catalog item (admin).
func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductUpdateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	upd := database.ProductUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Images:      req.Images,
		Featured:    req.Featured,
		Active:      req.Active,
	}
	p, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, p)
}

// DeleteProduct removes a catalog item and its hosted images (admin).
// Past orders keep their line-item snapshots.
func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	if h.uploader != nil {
		for _, img := range p.Images {
			if img.PublicID == "" {
				continue
			}
			if err := h.uploader.Destroy(r.Context(), img.PublicID); err != nil {
				// Orphaned assets are preferable to undeletable products.
				ctxLogger := logging.Ctx(r.Context())
				ctxLogger.Warn().Err(err).
					Str("public_id", img.PublicID).
					Msg("image cleanup failed")
			}
		}
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, map[string]string{"message": "product deleted"})
}
