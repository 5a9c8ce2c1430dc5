// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rajat-k-27/dishari/internal/models"
)

// ProductStore persists catalog items.
type ProductStore struct {
	c *mongo.Collection
}

// NewProductStore returns a product store over the given database.
func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{c: db.Collection(collProducts)}
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	// ActiveOnly restricts the listing to active products (storefront view).
	// Admin listings pass false to see deactivated products too.
	ActiveOnly bool

	// Featured, when set, filters on the featured flag.
	Featured *bool

	// Category, when non-empty, filters on the category enum.
	Category string

	// Limit caps the number of results; 0 means no cap.
	Limit int64
}

// query builds the bson filter for a listing.
func (f ProductFilter) query() bson.M {
	q := bson.M{}
	if f.ActiveOnly {
		q["active"] = true
	}
	if f.Featured != nil {
		q["featured"] = *f.Featured
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	return q
}

// List returns products matching the filter, newest first.
func (s *ProductStore) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cur, err := s.c.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get returns a single product by id.
func (s *ProductStore) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var p models.Product
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a new product, stamping timestamps and defaulting the
// active flag to true.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Images == nil {
		p.Images = []models.ProductImage{}
	}

	res, err := s.c.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// ProductUpdate carries the fields an admin edit may change. Nil fields
// are left untouched.
type ProductUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	Category    *string
	Stock       *int
	Images      *[]models.ProductImage
	Featured    *bool
	Active      *bool
}

// set builds the $set document for the update.
func (u ProductUpdate) set(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Stock != nil {
		set["stock"] = *u.Stock
	}
	if u.Images != nil {
		set["images"] = *u.Images
	}
	if u.Featured != nil {
		set["featured"] = *u.Featured
	}
	if u.Active != nil {
		set["active"] = *u.Active
	}
	return set
}

// Update applies an admin edit and returns the updated product.
func (s *ProductStore) Update(ctx context.Context, id string, upd ProductUpdate) (*models.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var p models.Product
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": upd.set(time.Now().UTC())},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Delete hard-deletes a product. Image assets must be removed from the
// image host by the caller first; past orders keep their snapshots.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock reserves qty units with a single conditional update:
// "decrement stock by qty where stock >= qty". A concurrent order that
// would push stock negative matches no document and gets
// ErrInsufficientStock, so oversell is impossible.
func (s *ProductStore) DecrementStock(ctx context.Context, id string, qty int) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": oid, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing product from a stock shortfall.
		n, err := s.c.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

// IncrementStock returns qty units, compensating a reservation that
// could not be completed.
func (s *ProductStore) IncrementStock(ctx context.Context, id string, qty int) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"stock": qty}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
