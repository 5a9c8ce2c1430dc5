// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

// Package api implements the HTTP surface: one handler group per
// resource (products, orders, payment, cart, contact, upload, auth),
// the shared response envelope, and the router wiring middleware,
// rate limits, and auth guards together.
//
// Every response uses the same JSON envelope: {"success":true,"data":…}
// on success, {"success":false,"error":{code,message,…}} on failure,
// with HTTP status codes matching the error class.
package api
