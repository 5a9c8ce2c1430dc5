// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package api

import (
	"context"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/rajat-k-27/dishari/internal/auth"
	"github.com/rajat-k-27/dishari/internal/config"
	"github.com/rajat-k-27/dishari/internal/database"
	"github.com/rajat-k-27/dishari/internal/logging"
	"github.com/rajat-k-27/dishari/internal/validation"
)

// maxBodyBytes bounds JSON request bodies. Uploads have their own,
// larger limit.
const maxBodyBytes = 1 << 20 // 1 MiB

// Handlers carries the dependencies shared by all handler groups.
type Handlers struct {
	cfg      *config.Config
	products ProductStore
	orders   OrderStore
	contacts ContactStore
	users    UserStore
	carts    CartStore
	gateway  PaymentGateway
	intents  IntentGateway
	webhooks WebhookVerifier
	mailer   Mailer
	uploader Uploader
	events   Broadcaster
	tokens   *auth.Manager

	healthChecks map[string]func(ctx context.Context) error
}

// HandlerDeps bundles the constructor arguments for Handlers.
type HandlerDeps struct {
	Config   *config.Config
	Products ProductStore
	Orders   OrderStore
	Contacts ContactStore
	Users    UserStore
	Carts    CartStore
	Gateway  PaymentGateway
	Intents  IntentGateway
	Webhooks WebhookVerifier
	Mailer   Mailer
	Uploader Uploader
	Events   Broadcaster
	Tokens   *auth.Manager

	// HealthChecks maps probe names (mongo, redis) to ping functions
	// surfaced by the health endpoint.
	HealthChecks map[string]func(ctx context.Context) error
}

// NewHandlers wires the handler groups.
func NewHandlers(deps HandlerDeps) *Handlers {
	return &Handlers{
		cfg:      deps.Config,
		products: deps.Products,
		orders:   deps.Orders,
		contacts: deps.Contacts,
		users:    deps.Users,
		carts:    deps.Carts,
		gateway:  deps.Gateway,
		intents:  deps.Intents,
		webhooks: deps.Webhooks,
		mailer:   deps.Mailer,
		uploader: deps.Uploader,
		events:   deps.Events,
		tokens:   deps.Tokens,

		healthChecks: deps.HealthChecks,
	}
}

// decodeAndValidate reads a JSON body into dst and validates it,
// writing the appropriate error envelope on failure. Returns false if
// the request has already been answered.
func (h *Handlers) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		return false
	}

	if err := validation.ValidateStruct(dst); err != nil {
		var ve *validation.RequestValidationError
		if errors.As(err, &ve) {
			WriteErrorDetails(w, r, http.StatusBadRequest, CodeValidation, "validation failed", ve.Fields())
		} else {
			WriteError(w, r, http.StatusBadRequest, CodeValidation, "validation failed")
		}
		return false
	}
	return true
}

// writeStoreError translates store sentinels into the error envelope.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, CodeNotFound, "resource not found")
	case errors.Is(err, database.ErrInsufficientStock):
		WriteError(w, r, http.StatusBadRequest, CodeInsufficientStock, "insufficient stock")
	case errors.Is(err, database.ErrDuplicateEmail):
		WriteError(w, r, http.StatusConflict, CodeConflict, "email already registered")
	default:
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Error().Err(err).Msg("store operation failed")
		WriteError(w, r, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

// mustClaims returns the session claims; the auth middleware guards
// guarantee presence on protected routes.
func mustClaims(r *http.Request) *auth.Claims {
	claims, _ := auth.ClaimsFromContext(r.Context())
	return claims
}
