// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rajat-k-27/dishari/internal/auth"
	"github.com/rajat-k-27/dishari/internal/config"
	"github.com/rajat-k-27/dishari/internal/models"
	"github.com/rajat-k-27/dishari/internal/payment"
)

// testEnv wires the full router over in-memory fakes.
type testEnv struct {
	router   http.Handler
	products *fakeProducts
	orders   *fakeOrders
	users    *fakeUsers
	contacts *fakeContacts
	carts    *fakeCarts
	gateway  *fakeGateway
	intents  *fakeIntents
	webhooks *fakeWebhooks
	mailer   *fakeMailer
	events   *fakeEvents

	customer      *models.User
	admin         *models.User
	customerToken string
	adminToken    string
}

func newTestEnv(t *testing.T, products ...*models.Product) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Timeout = 5 * time.Second
	cfg.Server.StaticDir = t.TempDir()
	cfg.Security.CookieName = "dishari_session"
	cfg.Security.RateLimitDisabled = true

	customer := &models.User{
		ID: primitive.NewObjectID(), Name: "Asha", Email: "asha@example.com",
		Role: models.RoleUser, Active: true,
	}
	admin := &models.User{
		ID: primitive.NewObjectID(), Name: "Rajat", Email: "admin@example.com",
		Role: models.RoleAdmin, Active: true,
	}

	env := &testEnv{
		products: newFakeProducts(products...),
		orders:   newFakeOrders(),
		users:    newFakeUsers(customer, admin),
		contacts: newFakeContacts(),
		carts:    newFakeCarts(),
		gateway:  &fakeGateway{goodSignature: "good-signature"},
		intents:  &fakeIntents{},
		webhooks: &fakeWebhooks{},
		mailer:   &fakeMailer{},
		events:   &fakeEvents{},
		customer: customer,
		admin:    admin,
	}

	tokens := auth.NewManager("0123456789abcdef0123456789abcdef", time.Hour, "dishari")
	var err error
	if env.customerToken, err = tokens.Issue(customer.ID.Hex(), customer.Email, customer.Name, customer.Role); err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if env.adminToken, err = tokens.Issue(admin.ID.Hex(), admin.Email, admin.Name, admin.Role); err != nil {
		t.Fatalf("issue token: %v", err)
	}

	h := NewHandlers(HandlerDeps{
		Config:   cfg,
		Products: env.products,
		Orders:   env.orders,
		Contacts: env.contacts,
		Users:    env.users,
		Carts:    env.carts,
		Gateway:  env.gateway,
		Intents:  env.intents,
		Webhooks: env.webhooks,
		Mailer:   env.mailer,
		Uploader: nil,
		Events:   env.events,
		Tokens:   tokens,
	})
	env.router = NewRouter(cfg, h, auth.NewMiddleware(tokens, cfg.Security.CookieName), nil)
	return env
}

// do performs a JSON request, optionally authenticated.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the data half of a success envelope into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, rec.Body.String())
	}
	if !envelope.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

// errorCode extracts the code of an error envelope.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, rec.Body.String())
	}
	if envelope.Success {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	return envelope.Error.Code
}

func orderBody(method string, lines ...OrderItemRequest) CreateOrderRequest {
	return CreateOrderRequest{
		CustomerInfo: CustomerInfoRequest{
			Name:  "Asha Verma",
			Email: "asha@example.com",
			Phone: "9876543210",
			Address: AddressRequest{
				Street: "14 Park Street", City: "Kolkata", State: "WB",
				ZipCode: "700016", Country: "India",
			},
		},
		Items:         lines,
		PaymentMethod: method,
	}
}

func TestCreateOrderCOD(t *testing.T) {
	pen := &models.Product{Title: "Gel Pen", Price: 25, Category: models.CategoryAccessories, Stock: 5, Active: true}
	env := newTestEnv(t, pen)

	body := orderBody("cod", OrderItemRequest{ProductID: pen.ID.Hex(), Quantity: 2})
	rec := env.do(t, http.MethodPost, "/api/orders", env.customerToken, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var order models.Order
	decodeData(t, rec, &order)

	if order.OrderStatus != models.OrderProcessing {
		t.Errorf("orderStatus = %s, want processing", order.OrderStatus)
	}
	if order.PaymentStatus != models.PaymentPending {
		t.Errorf("paymentStatus = %s, want pending (collected at delivery)", order.PaymentStatus)
	}
	if order.TotalAmount != 50 {
		t.Errorf("totalAmount = %v, want 50 (server-side pricing)", order.TotalAmount)
	}
	if order.OrderNumber == "" {
		t.Error("order number not assigned")
	}
	if got := env.products.stock(pen.ID.Hex()); got != 3 {
		t.Errorf("stock = %d, want 3 (decremented at creation for COD)", got)
	}
	if len(env.events.events) != 1 || env.events.events[0] != "order.created" {
		t.Errorf("broadcasts = %v, want [order.created]", env.events.events)
	}
}

func TestCreateOrderCODInsufficientStockRollsBack(t *testing.T) {
	pen := &models.Product{Title: "Gel Pen", Price: 25, Category: models.CategoryAccessories, Stock: 5, Active: true}
	mouse := &models.Product{Title: "Mouse", Price: 450, Category: models.CategoryGaming, Stock: 1, Active: true}
	env := newTestEnv(t, pen, mouse)

	body := orderBody("cod",
		OrderItemRequest{ProductID: pen.ID.Hex(), Quantity: 2},
		OrderItemRequest{ProductID: mouse.ID.Hex(), Quantity: 3},
	)
	rec := env.do(t, http.MethodPost, "/api/orders", env.customerToken, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != CodeInsufficientStock {
		t.Errorf("error code = %s, want %s", code, CodeInsufficientStock)
	}

	// No partial reservation survives.
	if got := env.products.stock(pen.ID.Hex()); got != 5 {
		t.Errorf("pen stock = %d, want 5 after rollback", got)
	}
	if got := env.products.stock(mouse.ID.Hex()); got != 1 {
		t.Errorf("mouse stock = %d, want 1", got)
	}
}

func TestCreateOrderCashReservesLikeCOD(t *testing.T) {
	// Cash is the pay-at-counter variant of collect-on-handover, so it
	// follows the COD rules: stock reserved at creation, order moves
	// straight to processing, payment collected on delivery.
	pen := &models.Product{Title: "Gel Pen", Price: 25, Category: models.CategoryAccessories, Stock: 5, Active: true}
	env := newTestEnv(t, pen)

	rec := env.do(t, http.MethodPost, "/api/orders", env.customerToken,
		orderBody("cash", OrderItemRequest{ProductID: pen.ID.Hex(), Quantity: 2}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var order models.Order
	decodeData(t, rec, &order)
	if order.OrderStatus != models.OrderProcessing || order.PaymentStatus != models.PaymentPending {
		t.Errorf("statuses = %s/%s, want processing/pending", order.OrderStatus, order.PaymentStatus)
	}
	if got := env.products.stock(pen.ID.Hex()); got != 3 {
		t.Errorf("stock = %d, want 3 (reserved at creation)", got)
	}
}

func TestCreateOrderOnlineLeavesStockAlone(t *testing.T) {
	pen := &models.Product{Title: "Gel Pen", Price: 25, Category: models.CategoryAccessories, Stock: 5, Active: true}
	env := newTestEnv(t, pen)

	body := orderBody("razorpay", OrderItemRequest{ProductID: pen.ID.Hex(), Quantity: 2})
	rec := env.do(t, http.MethodPost, "/api/orders", env.customerToken, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var order models.Order
	decodeData(t, rec, &order)
	if order.OrderStatus != models.OrderPending || order.PaymentStatus != models.PaymentPending {
		t.Errorf("statuses = %s/%s, want pending/pending", order.OrderStatus, order.PaymentStatus)
	}
	if got := env.products.stock(pen.ID.Hex()); got != 5 {
		t.Errorf("stock = %d, want 5 (untouched until payment verifies)", got)
	}
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/orders", "", orderBody("cod"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestVerifyPayment(t *testing.T) {
	pen := &models.Product{Title: "Gel Pen", Price: 25, Category: models.CategoryAccessories, Stock: 5, Active: true}
	env := newTestEnv(t, pen)

	create := env.do(t, http.MethodPost, "/api/orders", env.customerToken,
		orderBody("razorpay", OrderItemRequest{ProductID: pen.ID.Hex(), Quantity: 2}))
	var order models.Order
	decodeData(t, create, &order)

	verifyBody := func(sig string) VerifyPaymentRequest {
		return VerifyPaymentRequest{
			OrderID:           order.ID.Hex(),
			RazorpayOrderID:   "order_rzp_1",
			RazorpayPaymentID: "pay_rzp_1",
			RazorpaySignature: sig,
		}
	}

	t.Run("bad signature leaves order untouched", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/payment/razorpay/verify", env.customerToken, verifyBody("forged"))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		stored := env.orders.get(order.ID.Hex())
		if stored.PaymentStatus != models.PaymentPending {
			t.Errorf("paymentStatus = %s, want pending", stored.PaymentStatus)
		}
		if got := env.products.stock(pen.ID.Hex()); got != 5 {
			t.Errorf("stock = %d, want 5", got)
		}
	})

	t.Run("gateway fetch failure leaves order unsettled", func(t *testing.T) {
		env.gateway.failFetch = true
		defer func() { env.gateway.failFetch = false }()

		rec := env.do(t, http.MethodPost, "/api/payment/razorpay/verify", env.customerToken, verifyBody("good-signature"))
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		stored := env.orders.get(order.ID.Hex())
		if stored.PaymentStatus != models.PaymentPending {
			t.Errorf("paymentStatus = %s, want pending (no state change)", stored.PaymentStatus)
		}
		if got := env.products.stock(pen.ID.Hex()); got != 5 {
			t.Errorf("stock = %d, want 5", got)
		}
	})

	t.Run("valid signature settles the order", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/payment/razorpay/verify", env.customerToken, verifyBody("good-signature"))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var settled models.Order
		decodeData(t, rec, &settled)
		if settled.PaymentStatus != models.PaymentPaid {
			t.Errorf("paymentStatus = %s, want paid", settled.PaymentStatus)
		}
		if settled.OrderStatus != models.OrderProcessing {
			t.Errorf("orderStatus = %s, want processing", settled.OrderStatus)
		}
		if settled.PaymentDetails.PaidAt == nil {
			t.Error("paidAt not stamped")
		}
		if settled.PaymentDetails.RazorpayPaymentID != "pay_rzp_1" {
			t.Errorf("razorpayPaymentId = %q", settled.PaymentDetails.RazorpayPaymentID)
		}
		if got := env.products.stock(pen.ID.Hex()); got != 3 {
			t.Errorf("stock = %d, want 3 after verification decrement", got)
		}
	})

	t.Run("re-verification is idempotent", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/payment/razorpay/verify", env.customerToken, verifyBody("good-signature"))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := env.products.stock(pen.ID.Hex()); got != 3 {
			t.Errorf("stock = %d, want 3 (no second decrement)", got)
		}
	})
}

func TestVerifyPaymentOwnershipEnforced(t *testing.T) {
	pen := &models.Product{Title: "Gel Pen", Price: 25, Category: models.CategoryAccessories, Stock: 5, Active: true}
	env := newTestEnv(t, pen)

	create := env.do(t, http.MethodPost, "/api/orders", env.customerToken,
		orderBody("razorpay", OrderItemRequest{ProductID: pen.ID.Hex(), Quantity: 1}))
	var order models.Order
	decodeData(t, create, &order)

	// A different customer cannot verify someone else's order.
	other := &models.User{ID: primitive.NewObjectID(), Name: "Ravi", Email: "ravi@example.com", Role: models.RoleUser, Active: true}
	env.users.items[other.ID.Hex()] = other
	tokens := auth.NewManager("0123456789abcdef0123456789abcdef", time.Hour, "dishari")
	otherToken, _ := tokens.Issue(other.ID.Hex(), other.Email, other.Name, other.Role)

	rec := env.do(t, http.MethodPost, "/api/payment/razorpay/verify", otherToken, VerifyPaymentRequest{
		OrderID:           order.ID.Hex(),
		RazorpayOrderID:   "order_rzp_1",
		RazorpayPaymentID: "pay_rzp_1",
		RazorpaySignature: "good-signature",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestAdminOrderStatusTransitions(t *testing.T) {
	pen := &models.Product{Title: "Gel Pen", Price: 25, Category: models.CategoryAccessories, Stock: 5, Active: true}
	env := newTestEnv(t, pen)

	create := env.do(t, http.MethodPost, "/api/orders", env.customerToken,
		orderBody("cod", OrderItemRequest{ProductID: pen.ID.Hex(), Quantity: 1}))
	var order models.Order
	decodeData(t, create, &order)
	statusPath := "/api/orders/" + order.ID.Hex() + "/status"

	t.Run("customer cannot transition", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, statusPath, env.customerToken,
			UpdateOrderStatusRequest{OrderStatus: "shipped"})
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("invalid transition rejected", func(t *testing.T) {
		// COD orders start at processing; delivered requires shipped first.
		rec := env.do(t, http.MethodPut, statusPath, env.adminToken,
			UpdateOrderStatusRequest{OrderStatus: "delivered"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("ship then deliver collects COD payment", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, statusPath, env.adminToken,
			UpdateOrderStatusRequest{OrderStatus: "shipped"})
		if rec.Code != http.StatusOK {
			t.Fatalf("ship status = %d, body = %s", rec.Code, rec.Body.String())
		}

		rec = env.do(t, http.MethodPut, statusPath, env.adminToken,
			UpdateOrderStatusRequest{OrderStatus: "delivered"})
		if rec.Code != http.StatusOK {
			t.Fatalf("deliver status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var delivered models.Order
		decodeData(t, rec, &delivered)
		if delivered.PaymentStatus != models.PaymentPaid {
			t.Errorf("paymentStatus = %s, want paid (COD collected at delivery)", delivered.PaymentStatus)
		}
		if delivered.PaymentDetails.PaidAt == nil {
			t.Error("paidAt not stamped on COD delivery")
		}
	})
}

func TestCancelOrder(t *testing.T) {
	pen := &models.Product{Title: "Gel Pen", Price: 25, Category: models.CategoryAccessories, Stock: 5, Active: true}
	env := newTestEnv(t, pen)

	newOrder := func(t *testing.T) models.Order {
		rec := env.do(t, http.MethodPost, "/api/orders", env.customerToken,
			orderBody("cod", OrderItemRequest{ProductID: pen.ID.Hex(), Quantity: 1}))
		var o models.Order
		decodeData(t, rec, &o)
		return o
	}

	t.Run("owner cancels a processing order", func(t *testing.T) {
		o := newOrder(t)
		rec := env.do(t, http.MethodPatch, "/api/orders/"+o.ID.Hex()+"/cancel", env.customerToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var cancelled models.Order
		decodeData(t, rec, &cancelled)
		if cancelled.OrderStatus != models.OrderCancelled {
			t.Errorf("orderStatus = %s, want cancelled", cancelled.OrderStatus)
		}
		if cancelled.CancelledBy != models.CancelledByUser {
			t.Errorf("cancelledBy = %q, want user", cancelled.CancelledBy)
		}
	})

	t.Run("shipped order cannot be cancelled", func(t *testing.T) {
		o := newOrder(t)
		env.do(t, http.MethodPut, "/api/orders/"+o.ID.Hex()+"/status", env.adminToken,
			UpdateOrderStatusRequest{OrderStatus: "shipped"})

		rec := env.do(t, http.MethodPatch, "/api/orders/"+o.ID.Hex()+"/cancel", env.customerToken, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if got := env.orders.get(o.ID.Hex()).OrderStatus; got != models.OrderShipped {
			t.Errorf("orderStatus = %s, want shipped (no state change)", got)
		}
	})

	t.Run("stranger gets 403", func(t *testing.T) {
		o := newOrder(t)
		tokens := auth.NewManager("0123456789abcdef0123456789abcdef", time.Hour, "dishari")
		strangerToken, _ := tokens.Issue(primitive.NewObjectID().Hex(), "x@example.com", "X", models.RoleUser)

		rec := env.do(t, http.MethodPatch, "/api/orders/"+o.ID.Hex()+"/cancel", strangerToken, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}

func TestStripeWebhook(t *testing.T) {
	pen := &models.Product{Title: "Gel Pen", Price: 25, Category: models.CategoryAccessories, Stock: 5, Active: true}
	env := newTestEnv(t, pen)

	create := env.do(t, http.MethodPost, "/api/orders", env.customerToken,
		orderBody("stripe", OrderItemRequest{ProductID: pen.ID.Hex(), Quantity: 2}))
	var order models.Order
	decodeData(t, create, &order)

	intentRec := env.do(t, http.MethodPost, "/api/payment/stripe/create-intent", env.customerToken,
		map[string]string{"orderId": order.ID.Hex()})
	if intentRec.Code != http.StatusOK {
		t.Fatalf("create intent status = %d, body = %s", intentRec.Code, intentRec.Body.String())
	}
	var intent payment.PaymentIntent
	decodeData(t, intentRec, &intent)
	if intent.ClientSecret == "" {
		t.Error("client secret missing")
	}
	if intent.Amount != 5000 {
		t.Errorf("amount = %d paise, want 5000", intent.Amount)
	}

	t.Run("bad signature rejected", func(t *testing.T) {
		env.webhooks.err = fmt.Errorf("signature mismatch")
		rec := env.do(t, http.MethodPost, "/api/webhooks/stripe", "", map[string]string{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		env.webhooks.err = nil
	})

	t.Run("payment succeeded settles order", func(t *testing.T) {
		env.webhooks.event = &payment.WebhookEvent{
			Type:            payment.EventPaymentSucceeded,
			PaymentIntentID: intent.ID,
		}
		rec := env.do(t, http.MethodPost, "/api/webhooks/stripe", "", map[string]string{})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		stored := env.orders.get(order.ID.Hex())
		if stored.PaymentStatus != models.PaymentPaid {
			t.Errorf("paymentStatus = %s, want paid", stored.PaymentStatus)
		}
		if stored.OrderStatus != models.OrderProcessing {
			t.Errorf("orderStatus = %s, want processing", stored.OrderStatus)
		}
		if got := env.products.stock(pen.ID.Hex()); got != 3 {
			t.Errorf("stock = %d, want 3", got)
		}
	})

	t.Run("redelivery does not decrement twice", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/webhooks/stripe", "", map[string]string{})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := env.products.stock(pen.ID.Hex()); got != 3 {
			t.Errorf("stock = %d, want 3 (no second decrement on retry)", got)
		}
	})

	t.Run("unknown intent acknowledged", func(t *testing.T) {
		env.webhooks.event = &payment.WebhookEvent{
			Type:            payment.EventPaymentSucceeded,
			PaymentIntentID: "pi_unknown",
		}
		rec := env.do(t, http.MethodPost, "/api/webhooks/stripe", "", map[string]string{})
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 (retry will not help)", rec.Code)
		}
	})
}

func TestCreateStripeIntentChecksMethod(t *testing.T) {
	pen := &models.Product{Title: "Gel Pen", Price: 25, Category: models.CategoryAccessories, Stock: 5, Active: true}
	env := newTestEnv(t, pen)

	create := env.do(t, http.MethodPost, "/api/orders", env.customerToken,
		orderBody("razorpay", OrderItemRequest{ProductID: pen.ID.Hex(), Quantity: 1}))
	var order models.Order
	decodeData(t, create, &order)

	rec := env.do(t, http.MethodPost, "/api/payment/stripe/create-intent", env.customerToken,
		map[string]string{"orderId": order.ID.Hex()})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for a razorpay order", rec.Code)
	}
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	t.Run("register signs in", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
			Name: "New User", Email: "new@example.com", Password: "longenough1",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		cookies := rec.Result().Cookies()
		found := false
		for _, c := range cookies {
			if c.Name == "dishari_session" && c.Value != "" {
				found = true
			}
		}
		if !found {
			t.Error("session cookie not set")
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
			Name: "Again", Email: "new@example.com", Password: "longenough1",
		})
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
			Email: "new@example.com", Password: "wrong-password",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("login succeeds", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
			Email: "new@example.com", Password: "longenough1",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("me requires auth", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestContactSubmission(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/contact", "", ContactRequest{
		Name: "Meera", Email: "meera@example.com", Phone: "9876501234",
		Subject: "Printing rates", Message: "What do you charge for color printouts?",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var contact models.Contact
	decodeData(t, rec, &contact)
	if contact.Status != models.ContactNew {
		t.Errorf("status = %s, want new", contact.Status)
	}

	// The acknowledgement mail is fired asynchronously.
	deadline := time.Now().Add(2 * time.Second)
	for {
		env.mailer.mu.Lock()
		n := len(env.mailer.contacts)
		env.mailer.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("confirmation mail never sent")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCartEndpoints(t *testing.T) {
	pen := &models.Product{Title: "Gel Pen", Price: 25, Category: models.CategoryAccessories, Stock: 10, Active: true}
	env := newTestEnv(t, pen)

	add := env.do(t, http.MethodPost, "/api/cart/items", env.customerToken,
		CartAddRequest{ProductID: pen.ID.Hex(), Quantity: 2})
	if add.Code != http.StatusOK {
		t.Fatalf("add status = %d, body = %s", add.Code, add.Body.String())
	}

	var view cartView
	decodeData(t, add, &view)
	if view.TotalItems != 2 || view.TotalPrice != 50 {
		t.Errorf("totals = %d items / %v, want 2 / 50", view.TotalItems, view.TotalPrice)
	}

	upd := env.do(t, http.MethodPut, "/api/cart/items", env.customerToken,
		CartUpdateRequest{ProductID: pen.ID.Hex(), Quantity: 5})
	decodeData(t, upd, &view)
	if view.TotalItems != 5 {
		t.Errorf("totalItems = %d, want 5", view.TotalItems)
	}

	// Quantity 0 removes the line.
	zero := env.do(t, http.MethodPut, "/api/cart/items", env.customerToken,
		CartUpdateRequest{ProductID: pen.ID.Hex(), Quantity: 0})
	decodeData(t, zero, &view)
	if view.TotalItems != 0 {
		t.Errorf("totalItems = %d, want 0 after zero-quantity update", view.TotalItems)
	}

	if rec := env.do(t, http.MethodGet, "/api/cart", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous cart status = %d, want 401", rec.Code)
	}
}

func TestAdminProductCRUD(t *testing.T) {
	env := newTestEnv(t)

	t.Run("customer cannot create", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/products", env.customerToken, ProductRequest{
			Title: "Headset", Description: "USB headset", Price: 900, Category: "gaming", Stock: 4,
		})
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("admin create, update, fetch", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/products", env.adminToken, ProductRequest{
			Title: "Headset", Description: "USB headset", Price: 900, Category: "gaming", Stock: 4,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var p models.Product
		decodeData(t, rec, &p)
		if !p.Active {
			t.Error("new product not active by default")
		}

		price := 850.0
		upd := env.do(t, http.MethodPut, "/api/products/"+p.ID.Hex(), env.adminToken,
			ProductUpdateRequest{Price: &price})
		if upd.Code != http.StatusOK {
			t.Fatalf("update status = %d, body = %s", upd.Code, upd.Body.String())
		}
		decodeData(t, upd, &p)
		if p.Price != 850 {
			t.Errorf("price = %v, want 850", p.Price)
		}

		get := env.do(t, http.MethodGet, "/api/products/"+p.ID.Hex(), "", nil)
		if get.Code != http.StatusOK {
			t.Errorf("get status = %d", get.Code)
		}
	})

	t.Run("invalid category rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/products", env.adminToken, ProductRequest{
			Title: "Thing", Description: "desc", Price: 10, Category: "furniture", Stock: 1,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if code := errorCode(t, rec); code != CodeValidation {
			t.Errorf("error code = %s, want %s", code, CodeValidation)
		}
	})
}

func TestDeactivatedProductHiddenFromStorefront(t *testing.T) {
	hidden := &models.Product{Title: "Retired", Price: 10, Category: models.CategorySnacks, Stock: 0, Active: false}
	env := newTestEnv(t, hidden)

	if rec := env.do(t, http.MethodGet, "/api/products/"+hidden.ID.Hex(), "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("anonymous status = %d, want 404", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/products/"+hidden.ID.Hex(), env.adminToken, nil); rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}

	var listed []models.Product
	rec := env.do(t, http.MethodGet, "/api/products", "", nil)
	decodeData(t, rec, &listed)
	if len(listed) != 0 {
		t.Errorf("storefront listing shows %d products, want 0", len(listed))
	}
}

func TestAdminListingIncludesDeactivated(t *testing.T) {
	live := &models.Product{Title: "Live", Price: 20, Category: models.CategorySnacks, Stock: 3, Active: true}
	hidden := &models.Product{Title: "Retired", Price: 10, Category: models.CategorySnacks, Stock: 0, Active: false}
	env := newTestEnv(t, live, hidden)

	if rec := env.do(t, http.MethodGet, "/api/admin/products", env.customerToken, nil); rec.Code != http.StatusForbidden {
		t.Errorf("customer status = %d, want 403", rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/admin/products", env.adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var listed []models.Product
	decodeData(t, rec, &listed)
	if len(listed) != 2 {
		t.Errorf("admin listing shows %d products, want 2 (deactivated included)", len(listed))
	}
}
