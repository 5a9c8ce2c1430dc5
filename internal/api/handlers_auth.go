// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package api

import (
	"errors"
	"net/http"

	"github.com/rajat-k-27/dishari/internal/auth"
	"github.com/rajat-k-27/dishari/internal/database"
	"github.com/rajat-k-27/dishari/internal/logging"
	"github.com/rajat-k-27/dishari/internal/models"
)

// Register creates a customer account and signs it in.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Error().Err(err).Msg("hash password")
		WriteError(w, r, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Role:     models.RoleUser,
		Active:   true,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		writeStoreError(w, r, err)
		return
	}

	h.issueSession(w, r, user)
}

// Login exchanges credentials for a session. Lookup and compare
// failures return the same message so the endpoint cannot be used to
// enumerate accounts.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			WriteError(w, r, http.StatusUnauthorized, CodeUnauthorized, "invalid email or password")
			return
		}
		writeStoreError(w, r, err)
		return
	}
	if !user.Active || !auth.CheckPassword(user.Password, req.Password) {
		WriteError(w, r, http.StatusUnauthorized, CodeUnauthorized, "invalid email or password")
		return
	}

	h.issueSession(w, r, user)
}

// Logout clears the session cookie. The JWT itself stays valid until
// expiry; the storefront only ever sends it from the cookie.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.Security.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Security.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	WriteJSON(w, r, http.StatusOK, map[string]string{"message": "signed out"})
}

// Me returns the signed-in account.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)
	user, err := h.users.FindByID(r.Context(), claims.UserID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, user)
}

// issueSession signs a token, sets the session cookie, and writes the
// account plus token in the response body for non-browser clients.
func (h *Handlers) issueSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	token, err := h.tokens.Issue(user.ID.Hex(), user.Email, user.Name, user.Role)
	if err != nil {
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Error().Err(err).Msg("issue session token")
		WriteError(w, r, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.Security.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Security.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	WriteJSON(w, r, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}
