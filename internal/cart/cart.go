// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

// Package cart implements the shopping cart: a pure reducer over a
// serializable line-item map, persisted per user in Redis. The cart is
// advisory; authoritative stock and price validation happens at order
// creation.
package cart

// Item is one cart line. Price and stock are snapshots taken when the
// item was added and refreshed on later adds.
type Item struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Stock     int     `json:"stock"`
	Quantity  int     `json:"quantity"`
}

// Cart is the serializable cart state, keyed by product id.
type Cart struct {
	Items map[string]Item `json:"items"`
}

// New returns an empty cart.
func New() Cart {
	return Cart{Items: map[string]Item{}}
}

// Add inserts a line or increments an existing one. The quantity is
// clamped to the item's known stock; adding beyond stock saturates
// rather than failing, since the checkout will re-validate anyway.
// Price, title, image, and stock snapshots are refreshed from the
// incoming item.
func (c Cart) Add(item Item, qty int) Cart {
	if qty <= 0 {
		return c
	}
	next := c.clone()
	line, exists := next.Items[item.ProductID]
	if exists {
		item.Quantity = line.Quantity + qty
	} else {
		item.Quantity = qty
	}
	if item.Stock >= 0 && item.Quantity > item.Stock {
		item.Quantity = item.Stock
	}
	if item.Quantity <= 0 {
		delete(next.Items, item.ProductID)
		return next
	}
	next.Items[item.ProductID] = item
	return next
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less
// removes the line, as does clamping against a depleted stock
// snapshot. Quantities above the stock snapshot are clamped.
func (c Cart) UpdateQuantity(productID string, qty int) Cart {
	line, exists := c.Items[productID]
	if !exists {
		return c
	}
	next := c.clone()
	if line.Stock >= 0 && qty > line.Stock {
		qty = line.Stock
	}
	if qty <= 0 {
		delete(next.Items, productID)
		return next
	}
	line.Quantity = qty
	next.Items[productID] = line
	return next
}

// Remove deletes a line.
func (c Cart) Remove(productID string) Cart {
	if _, exists := c.Items[productID]; !exists {
		return c
	}
	next := c.clone()
	delete(next.Items, productID)
	return next
}

// Clear empties the cart.
func (c Cart) Clear() Cart {
	return New()
}

// TotalPrice is the sum of price×quantity over all lines.
func (c Cart) TotalPrice() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// TotalItems is the sum of quantities over all lines.
func (c Cart) TotalItems() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// clone copies the item map so reducer operations never alias the
// caller's state.
func (c Cart) clone() Cart {
	items := make(map[string]Item, len(c.Items))
	for k, v := range c.Items {
		items[k] = v
	}
	return Cart{Items: items}
}
