// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

// Package email sends transactional confirmation mail over SMTP. Sends
// are paced by a token bucket so a burst of checkouts cannot trip the
// provider's outbound limits, and callers fire them from goroutines so
// mail latency never holds up an API response.
package email

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/time/rate"
	gomail "gopkg.in/gomail.v2"

	"github.com/rajat-k-27/dishari/internal/logging"
	"github.com/rajat-k-27/dishari/internal/models"
)

// Mailer sends confirmation mail. A nil Mailer is a valid no-op, used
// when email is disabled in configuration.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	limiter *rate.Limiter
}

// NewMailer returns a mailer over the given SMTP transport, pacing
// sends to perMinute.
func NewMailer(host string, port int, username, password, from string, perMinute int) *Mailer {
	if perMinute <= 0 {
		perMinute = 30
	}
	return &Mailer{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
	}
}

// send renders and delivers one message, waiting on the pacing limiter
// first.
func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	if m == nil {
		return nil
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("email pacing: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// SendOrderConfirmation mails the customer their order summary.
func (m *Mailer) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	if m == nil {
		return nil
	}
	var body bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&body, orderConfirmationData(order)); err != nil {
		return fmt.Errorf("render order confirmation: %w", err)
	}
	subject := fmt.Sprintf("Order confirmed - %s", order.OrderNumber)
	return m.send(ctx, order.CustomerInfo.Email, subject, body.String())
}

// SendContactConfirmation acknowledges a contact form submission.
func (m *Mailer) SendContactConfirmation(ctx context.Context, contact *models.Contact) error {
	if m == nil {
		return nil
	}
	var body bytes.Buffer
	if err := contactConfirmationTmpl.Execute(&body, contact); err != nil {
		return fmt.Errorf("render contact confirmation: %w", err)
	}
	return m.send(ctx, contact.Email, "We received your message", body.String())
}

// SendAsync fires a send in the background, logging failures instead
// of surfacing them. Confirmation mail must never fail a checkout.
func SendAsync(send func(context.Context) error) {
	go func() {
		ctx := context.Background()
		if err := send(ctx); err != nil {
			logging.Error().Err(err).Msg("background email send failed")
		}
	}()
}
