// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

// Package main is the entry point for the Dishari storefront server.
//
// Dishari is the backend for a cyber-café e-commerce storefront and
// admin back-office: product catalog, cart and checkout with online
// (Razorpay, Stripe) and cash-on-delivery payment, order lifecycle
// management, contact messages, and role-gated admin routes.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config file (Koanf v2)
//  2. MongoDB: document persistence with startup index creation
//  3. Redis: per-user cart storage
//  4. Payment gateways: Razorpay client (circuit breaker) and Stripe
//     webhook verifier
//  5. Email, image hosting, admin WebSocket feed
//  6. HTTP server: chi router with auth guards and rate limits
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config.yaml, built-in
// defaults. A .env file next to the binary is read into the
// environment first. Required settings: MONGODB_URI, JWT_SECRET.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, waits up to 10s for in-flight requests, then
// closes Redis and MongoDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/rajat-k-27/dishari/internal/api"
	"github.com/rajat-k-27/dishari/internal/auth"
	"github.com/rajat-k-27/dishari/internal/cart"
	"github.com/rajat-k-27/dishari/internal/config"
	"github.com/rajat-k-27/dishari/internal/database"
	"github.com/rajat-k-27/dishari/internal/email"
	"github.com/rajat-k-27/dishari/internal/images"
	"github.com/rajat-k-27/dishari/internal/logging"
	"github.com/rajat-k-27/dishari/internal/payment"
	"github.com/rajat-k-27/dishari/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("mongo_db", cfg.Mongo.Database).
		Bool("email_enabled", cfg.Email.Enabled).
		Msg("Starting Dishari storefront")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// MongoDB.
	client, err := database.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logging.Error().Err(err).Msg("Error closing MongoDB connection")
		}
	}()
	db := client.Database(cfg.Mongo.Database)

	if err := database.EnsureIndexes(ctx, db); err != nil {
		logging.Fatal().Err(err).Msg("Failed to create indexes")
	}

	counters := database.NewCounterStore(db)
	products := database.NewProductStore(db)
	orders := database.NewOrderStore(db, counters)
	contacts := database.NewContactStore(db)
	users := database.NewUserStore(db)

	// Bootstrap admin account.
	if cfg.Admin.Email != "" {
		hash, err := auth.HashPassword(cfg.Admin.Password)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to hash admin password")
		}
		if err := users.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, hash); err != nil {
			logging.Fatal().Err(err).Msg("Failed to ensure admin account")
		}
		logging.Info().Str("email", cfg.Admin.Email).Msg("Admin account ready")
	}

	// Redis for carts.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing Redis connection")
		}
	}()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	carts := cart.NewStore(rdb, cfg.Redis.CartTTL)

	// Payment gateways.
	gateway := payment.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	intents := payment.NewStripeGateway(cfg.Stripe.SecretKey)
	webhooks := payment.NewStripeWebhook(cfg.Stripe.WebhookSecret)

	// Optional integrations.
	var mailer api.Mailer
	if cfg.Email.Enabled {
		mailer = email.NewMailer(
			cfg.Email.Host, cfg.Email.Port,
			cfg.Email.Username, cfg.Email.Password,
			cfg.Email.From, cfg.Email.PerMinute,
		)
		logging.Info().Str("host", cfg.Email.Host).Msg("Email confirmations enabled")
	}

	var uploader api.Uploader
	if cfg.Cloudinary.CloudName != "" {
		up, err := images.NewCloudinaryClient(
			cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey,
			cfg.Cloudinary.APISecret, cfg.Cloudinary.Folder,
		)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize image host")
		}
		uploader = up
	}

	// Admin realtime feed.
	hub := ws.NewHub()
	go hub.Run(ctx)

	tokens := auth.NewManager(cfg.Security.JWTSecret, cfg.Security.SessionTimeout, "dishari")
	authMW := auth.NewMiddleware(tokens, cfg.Security.CookieName)

	handlers := api.NewHandlers(api.HandlerDeps{
		Config:   cfg,
		Products: products,
		Orders:   orders,
		Contacts: contacts,
		Users:    users,
		Carts:    carts,
		Gateway:  gateway,
		Intents:  intents,
		Webhooks: webhooks,
		Mailer:   mailer,
		Uploader: uploader,
		Events:   hub,
		Tokens:   tokens,
		HealthChecks: map[string]func(ctx context.Context) error{
			"mongo": func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg, handlers, authMW, hub),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Forced shutdown after timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
