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

// ContactStore persists contact form submissions.
type ContactStore struct {
	c *mongo.Collection
}

// NewContactStore returns a contact store over the given database.
func NewContactStore(db *mongo.Database) *ContactStore {
	return &ContactStore{c: db.Collection(collContacts)}
}

// Create inserts a submission with status new.
func (s *ContactStore) Create(ctx context.Context, c *models.Contact) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Status = models.ContactNew

	res, err := s.c.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// List returns submissions, optionally filtered by status, newest first.
func (s *ContactStore) List(ctx context.Context, status string) ([]models.Contact, error) {
	q := bson.M{}
	if status != "" {
		q["status"] = status
	}

	cur, err := s.c.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	contacts := []models.Contact{}
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// ContactUpdate carries the fields an admin triage edit may change.
// Nil fields are left untouched.
type ContactUpdate struct {
	Status     *models.ContactStatus
	AdminNotes *string
}

// Update applies a triage edit and returns the updated submission.
func (s *ContactStore) Update(ctx context.Context, id string, upd ContactUpdate) (*models.Contact, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.AdminNotes != nil {
		set["adminNotes"] = *upd.AdminNotes
	}

	var c models.Contact
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Delete removes a submission.
func (s *ContactStore) Delete(ctx context.Context, id string) error {
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
