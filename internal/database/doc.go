// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

// Package database implements MongoDB persistence for the storefront.
//
// One store per collection (products, orders, contacts, users) plus a
// counters collection backing atomic order-number sequences. Stock
// mutations and sequence draws are single atomic operations so that
// concurrent checkouts can never oversell and order numbers can never
// collide within the retry budget.
package database
