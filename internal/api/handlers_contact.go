// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rajat-k-27/dishari/internal/database"
	"github.com/rajat-k-27/dishari/internal/email"
	"github.com/rajat-k-27/dishari/internal/models"
)

// CreateContact accepts a public contact form submission and sends an
// acknowledgement mail in the background.
func (h *Handlers) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	contact := &models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.contacts.Create(r.Context(), contact); err != nil {
		writeStoreError(w, r, err)
		return
	}

	if h.mailer != nil {
		c := *contact
		email.SendAsync(func(ctx context.Context) error {
			err := h.mailer.SendContactConfirmation(ctx, &c)
			h.countEmail("contact_confirmation", err)
			return err
		})
	}

	WriteJSON(w, r, http.StatusCreated, contact)
}

// AdminListContacts returns submissions, optionally filtered by status.
func (h *Handlers) AdminListContacts(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidContactStatus(status) {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "unknown contact status")
		return
	}
	contacts, err := h.contacts.List(r.Context(), status)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, contacts)
}

// AdminUpdateContact applies a triage edit.
func (h *Handlers) AdminUpdateContact(w http.ResponseWriter, r *http.Request) {
	var req ContactUpdateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	upd := database.ContactUpdate{AdminNotes: req.AdminNotes}
	if req.Status != nil {
		status := models.ContactStatus(*req.Status)
		upd.Status = &status
	}

	contact, err := h.contacts.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, contact)
}

// AdminDeleteContact removes a submission.
func (h *Handlers) AdminDeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.contacts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, map[string]string{"message": "contact deleted"})
}
