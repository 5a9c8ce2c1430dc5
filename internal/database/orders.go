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

	"github.com/rajat-k-27/dishari/internal/logging"
	"github.com/rajat-k-27/dishari/internal/models"
)

// Order insert retry budget for unique order-number collisions. A
// collision is only possible if the counters collection was reset while
// orders from the same month survive, so one retry nearly always wins.
const (
	orderInsertAttempts = 3
	orderInsertBackoff  = 100 * time.Millisecond
)

// OrderStore persists orders and assigns order numbers.
type OrderStore struct {
	c        *mongo.Collection
	counters *CounterStore
}

// NewOrderStore returns an order store over the given database.
func NewOrderStore(db *mongo.Database, counters *CounterStore) *OrderStore {
	return &OrderStore{c: db.Collection(collOrders), counters: counters}
}

// Create inserts the order, assigning it a DISH-YYYYMM-NNNNN order
// number drawn from the per-month atomic counter. On a unique-index
// collision it draws a fresh number and retries, up to the attempt
// budget.
func (s *OrderStore) Create(ctx context.Context, o *models.Order) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}

	for attempt := 1; attempt <= orderInsertAttempts; attempt++ {
		seq, err := s.counters.Next(ctx, models.OrderCounterKey(now))
		if err != nil {
			return err
		}
		o.OrderNumber = models.FormatOrderNumber(now, seq)

		_, err = s.c.InsertOne(ctx, o)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return err
		}

		ctxLogger := logging.Ctx(ctx)

		ctxLogger.Warn().
			Str("order_number", o.OrderNumber).
			Int("attempt", attempt).
			Msg("order number collision, retrying")

		select {
		case <-time.After(orderInsertBackoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return ErrDuplicateOrderNumber
}

// Get returns a single order by id.
func (s *OrderStore) Get(ctx context.Context, id string) (*models.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var o models.Order
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	// Status, when non-empty, filters on the order status enum.
	Status string

	// Limit caps the number of results; 0 means no cap.
	Limit int64
}

// List returns orders matching the filter, newest first. Admin view.
func (s *OrderStore) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := bson.M{}
	if filter.Status != "" {
		q["orderStatus"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByUser returns one user's orders, newest first.
func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	uid, err := objectID(userID)
	if err != nil {
		return nil, err
	}

	cur, err := s.c.Find(ctx, bson.M{"user": uid},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderStatusUpdate carries the fields an admin status edit may change.
// Nil fields are left untouched.
type OrderStatusUpdate struct {
	OrderStatus   *models.OrderStatus
	PaymentStatus *models.PaymentStatus
	Notes         *string
	CancelledBy   *string
}

// UpdateStatus applies a status edit and returns the updated order.
// Transition validity is checked by the caller against the current
// document; the store only writes. Flipping the payment status to paid
// stamps the collection time.
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, upd OrderStatusUpdate) (*models.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	set := bson.M{"updatedAt": now}
	if upd.OrderStatus != nil {
		set["orderStatus"] = *upd.OrderStatus
	}
	if upd.PaymentStatus != nil {
		set["paymentStatus"] = *upd.PaymentStatus
		if *upd.PaymentStatus == models.PaymentPaid {
			set["paymentDetails.paidAt"] = now
		}
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}
	if upd.CancelledBy != nil {
		set["cancelledBy"] = *upd.CancelledBy
	}

	var o models.Order
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// MarkPaid records a successful gateway payment: payment status paid,
// order status processing, and the gateway payment details.
func (s *OrderStore) MarkPaid(ctx context.Context, id string, details models.PaymentDetails) (*models.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if details.PaidAt == nil {
		details.PaidAt = &now
	}

	var o models.Order
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"paymentStatus":  models.PaymentPaid,
			"orderStatus":    models.OrderProcessing,
			"paymentDetails": details,
			"updatedAt":      now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// SetRazorpayOrderID stores the gateway order reference created for an
// online checkout so that verification can match it later.
func (s *OrderStore) SetRazorpayOrderID(ctx context.Context, id, razorpayOrderID string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"paymentDetails.razorpayOrderId": razorpayOrderID,
			"updatedAt":                      time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStripePaymentIntentID stores the payment-intent reference so the
// webhook consumer can find the order.
func (s *OrderStore) SetStripePaymentIntentID(ctx context.Context, id, intentID string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"stripePaymentIntentId": intentID,
			"updatedAt":             time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByStripePaymentIntent returns the order holding the given
// payment-intent reference.
func (s *OrderStore) FindByStripePaymentIntent(ctx context.Context, intentID string) (*models.Order, error) {
	var o models.Order
	err := s.c.FindOne(ctx, bson.M{"stripePaymentIntentId": intentID}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// UpdatePaymentByStripeIntent sets payment and order status on the
// order holding the given payment-intent reference. Used by the webhook
// consumer for both success and failure events.
func (s *OrderStore) UpdatePaymentByStripeIntent(ctx context.Context, intentID string, payment models.PaymentStatus, order models.OrderStatus) (*models.Order, error) {
	now := time.Now().UTC()
	set := bson.M{
		"paymentStatus": payment,
		"orderStatus":   order,
		"updatedAt":     now,
	}
	if payment == models.PaymentPaid {
		set["paymentDetails.paidAt"] = now
	}

	var o models.Order
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"stripePaymentIntentId": intentID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}
