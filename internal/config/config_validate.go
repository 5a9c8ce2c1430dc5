// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package config

import (
	"errors"
	"fmt"
	"strings"
)

// minJWTSecretLen is the minimum JWT secret length accepted in production.
const minJWTSecretLen = 32

// Validate checks the configuration for missing or unsafe values.
// It returns an error listing every problem found, not just the first.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Mongo.URI == "" {
		problems = append(problems, "mongo.uri is required")
	}
	if c.Mongo.Database == "" {
		problems = append(problems, "mongo.database is required")
	}
	if c.Security.JWTSecret == "" {
		problems = append(problems, "security.jwt_secret is required")
	} else if c.IsProduction() && len(c.Security.JWTSecret) < minJWTSecretLen {
		problems = append(problems, fmt.Sprintf("security.jwt_secret must be at least %d characters in production", minJWTSecretLen))
	}
	if c.Admin.Email != "" && c.Admin.Password == "" {
		problems = append(problems, "admin.password is required when admin.email is set")
	}
	if c.Email.Enabled {
		if c.Email.Host == "" {
			problems = append(problems, "email.host is required when email is enabled")
		}
		if c.Email.From == "" {
			problems = append(problems, "email.from is required when email is enabled")
		}
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// IsProduction reports whether the server runs with production checks enabled.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}
