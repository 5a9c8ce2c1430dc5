// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

// Package payment wraps the two online gateways. Razorpay drives the
// interactive checkout: the server creates a gateway order, the client
// completes payment in the widget, and the server verifies the returned
// signature before trusting anything. Stripe arrives the other way
// round, as signed webhook events consumed after the fact. Outbound
// gateway calls run behind a circuit breaker so a gateway outage fails
// fast instead of tying up request handlers.
package payment
