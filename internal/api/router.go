// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rajat-k-27/dishari/internal/auth"
	"github.com/rajat-k-27/dishari/internal/authz"
	"github.com/rajat-k-27/dishari/internal/config"
	"github.com/rajat-k-27/dishari/internal/middleware"
)

// NewRouter assembles the full HTTP surface: API routes with their
// auth guards and rate limits, operational endpoints, the admin
// websocket feed, and the guarded static storefront.
func NewRouter(cfg *config.Config, h *Handlers, authMW *auth.Middleware, adminFeed http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Prometheus)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.Server.Timeout))

	if len(cfg.Security.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Security.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Every request gets its session claims resolved once, up front.
	r.Use(authMW.Authenticate)

	if !cfg.Security.RateLimitDisabled {
		r.Use(httprate.LimitByIP(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow))
	}

	// Operational endpoints.
	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if !cfg.Security.RateLimitDisabled {
				// Credentials endpoints get a much stricter budget.
				login := httprate.LimitByIP(cfg.Security.LoginRateLimitReqs, cfg.Security.LoginRateLimitWindow)
				r.With(login).Post("/login", h.Login)
				r.With(login).Post("/register", h.Register)
			} else {
				r.Post("/login", h.Login)
				r.Post("/register", h.Register)
			}
			r.Post("/logout", h.Logout)
			r.With(authMW.RequireAuth).Get("/me", h.Me)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/{id}", h.GetProduct)
			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireAdmin)
				r.Post("/", h.CreateProduct)
				r.Put("/{id}", h.UpdateProduct)
				r.Delete("/{id}", h.DeleteProduct)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authMW.RequireAuth)
			r.Post("/", h.CreateOrder)
			r.Get("/user", h.ListMyOrders)
			r.Get("/{id}", h.GetOrder)
			r.Patch("/{id}/cancel", h.CancelOrder)
			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireAdmin)
				r.Get("/", h.AdminListOrders)
				r.Put("/{id}/status", h.AdminUpdateOrderStatus)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(authMW.RequireAuth)
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddToCart)
			r.Put("/items", h.UpdateCartItem)
			r.Delete("/items", h.RemoveCartItem)
		})

		r.Route("/payment", func(r chi.Router) {
			r.Use(authMW.RequireAuth)
			r.Post("/razorpay/create-order", h.CreateRazorpayOrder)
			r.Post("/razorpay/verify", h.VerifyRazorpayPayment)
			r.Post("/stripe/create-intent", h.CreateStripeIntent)
		})

		// Gateway calls in, authenticated by its delivery signature.
		r.Post("/webhooks/stripe", h.StripeWebhook)

		r.Route("/contact", func(r chi.Router) {
			r.Post("/", h.CreateContact)
			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireAdmin)
				r.Get("/", h.AdminListContacts)
				r.Put("/{id}", h.AdminUpdateContact)
				r.Delete("/{id}", h.AdminDeleteContact)
			})
		})

		r.With(authMW.RequireAdmin).Post("/upload", h.UploadImage)
		r.With(authMW.RequireAdmin).Get("/admin/products", h.AdminListProducts)

		if adminFeed != nil {
			r.With(authMW.RequireAdmin).Get("/admin/orders/stream", adminFeed.ServeHTTP)
		}
	})

	// Everything else is a storefront page, served behind the route
	// guard decision table.
	pages := authz.Middleware(http.FileServer(http.Dir(cfg.Server.StaticDir)))
	r.NotFound(pages.ServeHTTP)

	return r
}
