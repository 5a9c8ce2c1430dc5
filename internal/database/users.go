// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rajat-k-27/dishari/internal/models"
)

// UserStore persists accounts.
type UserStore struct {
	c *mongo.Collection
}

// NewUserStore returns a user store over the given database.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{c: db.Collection(collUsers)}
}

// Create inserts a new account. Emails are stored lowercased and are
// unique; a duplicate maps to ErrDuplicateEmail.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = now
	u.UpdatedAt = now

	res, err := s.c.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByEmail returns the account for a credential check, including the
// password hash. All other reads go through FindByID, which omits it.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID returns an account without its password hash.
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var u models.User
	err = s.c.FindOne(ctx,
		bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"password": 0}),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// EnsureAdmin creates the bootstrap admin account if no account holds
// the email yet. The password arrives already hashed. Idempotent across
// restarts.
func (s *UserStore) EnsureAdmin(ctx context.Context, name, email, passwordHash string) error {
	u := &models.User{
		Name:     name,
		Email:    email,
		Password: passwordHash,
		Role:     models.RoleAdmin,
		Active:   true,
	}
	err := s.Create(ctx, u)
	if errors.Is(err, ErrDuplicateEmail) {
		return nil
	}
	return err
}
