// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CounterStore draws values from named atomic sequences. Each sequence
// is a single document in the counters collection incremented with a
// findOneAndUpdate upsert, so concurrent draws can never observe the
// same value.
type CounterStore struct {
	c *mongo.Collection
}

// NewCounterStore returns a counter store over the given database.
func NewCounterStore(db *mongo.Database) *CounterStore {
	return &CounterStore{c: db.Collection(collCounters)}
}

// Next atomically increments the named sequence and returns the new value.
// The first draw on a fresh sequence returns 1.
func (s *CounterStore) Next(ctx context.Context, key string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": key},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", key, err)
	}
	return doc.Seq, nil
}
