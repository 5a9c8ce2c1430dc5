// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Store persists carts per user in Redis. Every write refreshes the
// TTL, so a cart survives as long as the user keeps shopping and
// expires quietly afterwards.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a Redis-backed cart store.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

// Get loads a user's cart. A missing key yields an empty cart.
func (s *Store) Get(ctx context.Context, userID string) (Cart, error) {
	raw, err := s.rdb.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(), nil
		}
		return Cart{}, fmt.Errorf("load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		// A corrupt cart is not worth failing checkout over; start fresh.
		return New(), nil
	}
	if c.Items == nil {
		c.Items = map[string]Item{}
	}
	return c, nil
}

// Save stores a user's cart and refreshes its TTL. Saving an empty
// cart deletes the key instead.
func (s *Store) Save(ctx context.Context, userID string, c Cart) error {
	if len(c.Items) == 0 {
		return s.Clear(ctx, userID)
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.rdb.Set(ctx, cartKey(userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Clear removes a user's cart.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
