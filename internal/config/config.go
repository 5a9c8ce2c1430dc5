// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

// Package config loads and validates application configuration.
//
// Configuration is loaded via Koanf v2 with layered sources
// (highest priority wins):
//   - Environment variables (see envMap in koanf.go)
//   - Config file (config.yaml)
//   - Built-in defaults
package config

import "time"

// Config is the root configuration for the storefront service.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Mongo      MongoConfig      `koanf:"mongo"`
	Redis      RedisConfig      `koanf:"redis"`
	Security   SecurityConfig   `koanf:"security"`
	Razorpay   RazorpayConfig   `koanf:"razorpay"`
	Stripe     StripeConfig     `koanf:"stripe"`
	Cloudinary CloudinaryConfig `koanf:"cloudinary"`
	Email      EmailConfig      `koanf:"email"`
	Admin      AdminConfig      `koanf:"admin"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`      // per-request timeout
	Environment string        `koanf:"environment"`  // development | production
	StaticDir   string        `koanf:"static_dir"`   // storefront page assets, served behind the route guard
	BaseURL     string        `koanf:"base_url"`     // public base URL, used in redirect targets and emails
}

// MongoConfig holds document database settings.
type MongoConfig struct {
	URI      string        `koanf:"uri"`
	Database string        `koanf:"database"`
	Timeout  time.Duration `koanf:"timeout"` // connect/ping timeout
}

// RedisConfig holds cart cache settings.
type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	CartTTL  time.Duration `koanf:"cart_ttl"` // idle carts expire after this
}

// SecurityConfig holds session and rate limit settings.
type SecurityConfig struct {
	JWTSecret       string        `koanf:"jwt_secret"`
	SessionTimeout  time.Duration `koanf:"session_timeout"`
	CookieName      string        `koanf:"cookie_name"`
	CookieSecure    bool          `koanf:"cookie_secure"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	// Login gets its own, much stricter budget (brute force prevention).
	LoginRateLimitReqs   int           `koanf:"login_rate_limit_reqs"`
	LoginRateLimitWindow time.Duration `koanf:"login_rate_limit_window"`
	RateLimitDisabled    bool          `koanf:"rate_limit_disabled"`
}

// RazorpayConfig holds the card/UPI gateway credential pair.
type RazorpayConfig struct {
	KeyID     string `koanf:"key_id"`
	KeySecret string `koanf:"key_secret"`
}

// StripeConfig holds the webhook-driven gateway credential pair.
type StripeConfig struct {
	SecretKey     string `koanf:"secret_key"`
	WebhookSecret string `koanf:"webhook_secret"`
}

// CloudinaryConfig holds image host credentials.
type CloudinaryConfig struct {
	CloudName string `koanf:"cloud_name"`
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
	Folder    string `koanf:"folder"` // upload folder for product images
}

// EmailConfig holds SMTP transport settings for confirmation mail.
type EmailConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Host      string `koanf:"host"`
	Port      int    `koanf:"port"`
	Username  string `koanf:"username"`
	Password  string `koanf:"password"`
	From      string `koanf:"from"`
	PerMinute int    `koanf:"per_minute"` // outbound send pacing
}

// AdminConfig holds the bootstrap admin account created at startup
// when no matching user exists.
type AdminConfig struct {
	Email    string `koanf:"email"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// defaultConfig returns a Config with all sensible default values.
// Defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
			StaticDir:   "./web",
			BaseURL:     "http://localhost:8080",
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "dishari",
			Timeout:  10 * time.Second,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			DB:      0,
			CartTTL: 7 * 24 * time.Hour,
		},
		Security: SecurityConfig{
			JWTSecret:            "",
			SessionTimeout:       30 * 24 * time.Hour, // matches the storefront "keep me signed in" month
			CookieName:           "dishari_session",
			CookieSecure:         true,
			CORSOrigins:          []string{},
			RateLimitReqs:        100,
			RateLimitWindow:      time.Minute,
			LoginRateLimitReqs:   5,
			LoginRateLimitWindow: 5 * time.Minute,
			RateLimitDisabled:    false,
		},
		Cloudinary: CloudinaryConfig{
			Folder: "dishari/products",
		},
		Email: EmailConfig{
			Enabled:   false,
			Port:      587,
			PerMinute: 30,
		},
		Admin: AdminConfig{
			Name: "Administrator",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
