// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rajat-k-27/dishari/internal/cart"
	"github.com/rajat-k-27/dishari/internal/database"
	"github.com/rajat-k-27/dishari/internal/models"
	"github.com/rajat-k-27/dishari/internal/payment"
)

// In-memory fakes implementing the store interfaces. They reproduce
// the semantics the handlers rely on: sentinel errors, conditional
// stock decrements, and order-number assignment.

type fakeProducts struct {
	mu    sync.Mutex
	items map[string]*models.Product
}

func newFakeProducts(ps ...*models.Product) *fakeProducts {
	f := &fakeProducts{items: map[string]*models.Product{}}
	for _, p := range ps {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		f.items[p.ID.Hex()] = p
	}
	return f
}

func (f *fakeProducts) List(_ context.Context, filter database.ProductFilter) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.items {
		if filter.ActiveOnly && !p.Active {
			continue
		}
		if filter.Category != "" && string(p.Category) != filter.Category {
			continue
		}
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProducts) Get(_ context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.items[p.ID.Hex()] = &cp
	return nil
}

func (f *fakeProducts) Update(_ context.Context, id string, upd database.ProductUpdate) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if upd.Active != nil {
		p.Active = *upd.Active
	}
	if upd.Featured != nil {
		p.Featured = *upd.Featured
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) DecrementStock(_ context.Context, id string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return database.ErrNotFound
	}
	if p.Stock < qty {
		return database.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (f *fakeProducts) IncrementStock(_ context.Context, id string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return database.ErrNotFound
	}
	p.Stock += qty
	return nil
}

func (f *fakeProducts) stock(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id].Stock
}

type fakeOrders struct {
	mu    sync.Mutex
	seq   int64
	items map[string]*models.Order
}

func newFakeOrders(os ...*models.Order) *fakeOrders {
	f := &fakeOrders{items: map[string]*models.Order{}}
	for _, o := range os {
		if o.ID.IsZero() {
			o.ID = primitive.NewObjectID()
		}
		f.items[o.ID.Hex()] = o
	}
	return f
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	o.ID = primitive.NewObjectID()
	o.OrderNumber = models.FormatOrderNumber(time.Now(), f.seq)
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	cp := *o
	f.items[o.ID.Hex()] = &cp
	return nil
}

func (f *fakeOrders) Get(_ context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) List(_ context.Context, filter database.OrderFilter) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.items {
		if filter.Status != "" && string(o.OrderStatus) != filter.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.items {
		if o.UserID.Hex() == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id string, upd database.OrderStatusUpdate) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if upd.OrderStatus != nil {
		o.OrderStatus = *upd.OrderStatus
	}
	if upd.PaymentStatus != nil {
		o.PaymentStatus = *upd.PaymentStatus
		if o.PaymentStatus == models.PaymentPaid {
			now := time.Now()
			o.PaymentDetails.PaidAt = &now
		}
	}
	if upd.Notes != nil {
		o.Notes = *upd.Notes
	}
	if upd.CancelledBy != nil {
		o.CancelledBy = *upd.CancelledBy
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) MarkPaid(_ context.Context, id string, details models.PaymentDetails) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if details.PaidAt == nil {
		now := time.Now()
		details.PaidAt = &now
	}
	o.PaymentStatus = models.PaymentPaid
	o.OrderStatus = models.OrderProcessing
	o.PaymentDetails = details
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) SetRazorpayOrderID(_ context.Context, id, rzpID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok {
		return database.ErrNotFound
	}
	o.PaymentDetails.RazorpayOrderID = rzpID
	return nil
}

func (f *fakeOrders) SetStripePaymentIntentID(_ context.Context, id, intentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok {
		return database.ErrNotFound
	}
	o.StripePaymentIntentID = intentID
	return nil
}

func (f *fakeOrders) FindByStripePaymentIntent(_ context.Context, intentID string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.items {
		if o.StripePaymentIntentID == intentID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeOrders) UpdatePaymentByStripeIntent(_ context.Context, intentID string, pay models.PaymentStatus, status models.OrderStatus) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.items {
		if o.StripePaymentIntentID == intentID {
			o.PaymentStatus = pay
			o.OrderStatus = status
			cp := *o
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeOrders) get(id string) *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.items[id]
	cp := *o
	return &cp
}

type fakeUsers struct {
	mu    sync.Mutex
	items map[string]*models.User // by id
}

func newFakeUsers(us ...*models.User) *fakeUsers {
	f := &fakeUsers{items: map[string]*models.User{}}
	for _, u := range us {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		f.items[u.ID.Hex()] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.items {
		if other.Email == u.Email {
			return database.ErrDuplicateEmail
		}
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	f.items[u.ID.Hex()] = &cp
	return nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *u
	cp.Password = ""
	return &cp, nil
}

type fakeContacts struct {
	mu    sync.Mutex
	items map[string]*models.Contact
}

func newFakeContacts() *fakeContacts {
	return &fakeContacts{items: map[string]*models.Contact{}}
}

func (f *fakeContacts) Create(_ context.Context, c *models.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = primitive.NewObjectID()
	c.Status = models.ContactNew
	cp := *c
	f.items[c.ID.Hex()] = &cp
	return nil
}

func (f *fakeContacts) List(_ context.Context, status string) ([]models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Contact{}
	for _, c := range f.items {
		if status != "" && string(c.Status) != status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeContacts) Update(_ context.Context, id string, upd database.ContactUpdate) (*models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if upd.Status != nil {
		c.Status = *upd.Status
	}
	if upd.AdminNotes != nil {
		c.AdminNotes = *upd.AdminNotes
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContacts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeCarts struct {
	mu    sync.Mutex
	items map[string]cart.Cart
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{items: map[string]cart.Cart{}}
}

func (f *fakeCarts) Get(_ context.Context, userID string) (cart.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[userID]
	if !ok {
		return cart.New(), nil
	}
	return c, nil
}

func (f *fakeCarts) Save(_ context.Context, userID string, c cart.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[userID] = c
	return nil
}

func (f *fakeCarts) Clear(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, userID)
	return nil
}

// fakeGateway verifies signatures against a fixed expectation and
// records created gateway orders.
type fakeGateway struct {
	mu            sync.Mutex
	created       []string // receipts
	goodSignature string
	failCreate    bool
	failFetch     bool
}

func (f *fakeGateway) CreateOrder(amountRupees float64, receipt string) (*payment.GatewayOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return nil, payment.ErrGatewayUnavailable
	}
	f.created = append(f.created, receipt)
	return &payment.GatewayOrder{
		ID:       fmt.Sprintf("order_fake_%d", len(f.created)),
		Amount:   int64(amountRupees * 100),
		Currency: "INR",
		KeyID:    "rzp_test_key",
	}, nil
}

func (f *fakeGateway) FetchPayment(paymentID string) (*payment.PaymentInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFetch {
		return nil, payment.ErrGatewayUnavailable
	}
	return &payment.PaymentInfo{Method: "upi", Status: "captured"}, nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) error {
	if signature != f.goodSignature {
		return payment.ErrBadSignature
	}
	return nil
}

// fakeIntents records created payment intents.
type fakeIntents struct {
	mu         sync.Mutex
	created    []string // order numbers
	failCreate bool
}

func (f *fakeIntents) CreateIntent(amountRupees float64, orderNumber string) (*payment.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return nil, payment.ErrGatewayUnavailable
	}
	f.created = append(f.created, orderNumber)
	return &payment.PaymentIntent{
		ID:           fmt.Sprintf("pi_fake_%d", len(f.created)),
		ClientSecret: fmt.Sprintf("pi_fake_%d_secret", len(f.created)),
		Amount:       int64(amountRupees * 100),
		Currency:     "inr",
	}, nil
}

// fakeWebhooks returns a canned event for a matching signature header.
type fakeWebhooks struct {
	event *payment.WebhookEvent
	err   error
}

func (f *fakeWebhooks) Verify(payload []byte, sigHeader string) (*payment.WebhookEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

// fakeMailer records sends.
type fakeMailer struct {
	mu       sync.Mutex
	orders   []string // order numbers
	contacts []string // emails
}

func (f *fakeMailer) SendOrderConfirmation(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, o.OrderNumber)
	return nil
}

func (f *fakeMailer) SendContactConfirmation(_ context.Context, c *models.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = append(f.contacts, c.Email)
	return nil
}

// fakeEvents records broadcasts.
type fakeEvents struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeEvents) Broadcast(eventType string, _ *models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
}
