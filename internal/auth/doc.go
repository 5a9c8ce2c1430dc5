// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

// Package auth implements password hashing, JWT session tokens, and the
// request middleware that attaches the authenticated user to the
// context. Tokens travel either as a Bearer header or in the session
// cookie; the cookie is what the browser storefront uses.
package auth
