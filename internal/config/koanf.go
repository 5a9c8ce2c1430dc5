// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/dishari/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envMap maps well-known environment variables to koanf config paths.
// These names match the deployment environment the storefront has always
// been configured with.
var envMap = map[string]string{
	"HOST":                    "server.host",
	"PORT":                    "server.port",
	"ENVIRONMENT":             "server.environment",
	"STATIC_DIR":              "server.static_dir",
	"BASE_URL":                "server.base_url",
	"MONGODB_URI":             "mongo.uri",
	"MONGODB_DATABASE":        "mongo.database",
	"REDIS_ADDR":              "redis.addr",
	"REDIS_PASSWORD":          "redis.password",
	"JWT_SECRET":              "security.jwt_secret",
	"SESSION_TIMEOUT":         "security.session_timeout",
	"CORS_ORIGINS":            "security.cors_origins",
	"RATE_LIMIT_DISABLED":     "security.rate_limit_disabled",
	"RAZORPAY_KEY_ID":         "razorpay.key_id",
	"RAZORPAY_KEY_SECRET":     "razorpay.key_secret",
	"STRIPE_SECRET_KEY":       "stripe.secret_key",
	"STRIPE_WEBHOOK_SECRET":   "stripe.webhook_secret",
	"CLOUDINARY_CLOUD_NAME":   "cloudinary.cloud_name",
	"CLOUDINARY_API_KEY":      "cloudinary.api_key",
	"CLOUDINARY_API_SECRET":   "cloudinary.api_secret",
	"EMAIL_ENABLED":           "email.enabled",
	"EMAIL_HOST":              "email.host",
	"EMAIL_PORT":              "email.port",
	"EMAIL_USERNAME":          "email.username",
	"EMAIL_PASSWORD":          "email.password",
	"EMAIL_FROM":              "email.from",
	"ADMIN_EMAIL":             "admin.email",
	"ADMIN_PASSWORD":          "admin.password",
	"ADMIN_NAME":              "admin.name",
	"LOG_LEVEL":               "logging.level",
	"LOG_FORMAT":              "logging.format",
}

// Load builds configuration from layered sources: built-in defaults,
// then an optional YAML config file, then environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// Layer 2: optional config file
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		path, ok := envMap[key]
		if !ok {
			return "", nil // unmapped env vars are ignored
		}
		// List-valued settings are comma-separated in the environment.
		if path == "security.cors_origins" {
			return path, splitCSV(value)
		}
		return path, value
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitCSV splits a comma-separated environment value, dropping empty parts.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// findConfigFile returns the first existing config file path, honoring
// the CONFIG_PATH override.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
