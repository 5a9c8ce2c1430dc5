// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

// Package models defines the document types persisted by the storefront:
// products, orders, contact messages and user accounts, together with
// their status enums and the order-status transition rules.
package models
