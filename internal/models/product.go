// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the product category enum.
type Category string

// Product categories sold by the café.
const (
	CategorySnacks      Category = "snacks"
	CategoryBeverages   Category = "beverages"
	CategoryGaming      Category = "gaming"
	CategoryAccessories Category = "accessories"
	CategoryServices    Category = "services"
)

// Categories lists all valid product categories.
var Categories = []Category{
	CategorySnacks,
	CategoryBeverages,
	CategoryGaming,
	CategoryAccessories,
	CategoryServices,
}

// ValidCategory reports whether s is a known product category.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// ProductImage is a hosted image asset reference: the serving URL plus
// the provider asset id needed to delete it later.
type ProductImage struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id" json:"public_id"`
}

// Product is a catalog item. Stock is mutated only through atomic
// conditional updates in the database layer, never read-modify-write.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    Category           `bson:"category" json:"category"`
	Stock       int                `bson:"stock" json:"stock"`
	Images      []ProductImage     `bson:"images" json:"images"`
	Featured    bool               `bson:"featured" json:"featured"`
	Active      bool               `bson:"active" json:"active"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FirstImageURL returns the URL of the first product image, or "" when
// the product has no images. Used for order line-item snapshots.
func (p *Product) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
