// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package database

import "errors"

// Sentinel errors returned by the stores. Handlers translate these at
// the API boundary.
var (
	// ErrNotFound indicates the referenced document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrInsufficientStock indicates a conditional stock decrement
	// matched no document because available stock was below the
	// requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrDuplicateEmail indicates a user insert hit the unique email index.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateOrderNumber indicates an order insert hit the unique
	// order number index after exhausting retries.
	ErrDuplicateOrderNumber = errors.New("order number collision")
)
