// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package email

import (
	"fmt"
	"html/template"

	"github.com/rajat-k-27/dishari/internal/models"
)

// orderLine is one rendered order row.
type orderLine struct {
	Title    string
	Quantity int
	Amount   string
}

// orderView is the template model for the order confirmation.
type orderView struct {
	Name          string
	OrderNumber   string
	Lines         []orderLine
	Total         string
	PaymentMethod string
	COD           bool
}

func rupees(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}

func orderConfirmationData(o *models.Order) orderView {
	lines := make([]orderLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, orderLine{
			Title:    it.Title,
			Quantity: it.Quantity,
			Amount:   rupees(it.Price * float64(it.Quantity)),
		})
	}
	return orderView{
		Name:          o.CustomerInfo.Name,
		OrderNumber:   o.OrderNumber,
		Lines:         lines,
		Total:         rupees(o.TotalAmount),
		PaymentMethod: string(o.PaymentMethod),
		COD:           o.PaymentMethod == models.PaymentCOD || o.PaymentMethod == models.PaymentCash,
	}
}

var orderConfirmationTmpl = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:Arial,sans-serif;color:#222">
  <h2>Thank you for your order, {{.Name}}!</h2>
  <p>Your order <strong>{{.OrderNumber}}</strong> has been received.</p>
  <table cellpadding="6" style="border-collapse:collapse">
    <tr><th align="left">Item</th><th align="right">Qty</th><th align="right">Amount</th></tr>
    {{range .Lines}}<tr><td>{{.Title}}</td><td align="right">{{.Quantity}}</td><td align="right">{{.Amount}}</td></tr>
    {{end}}<tr><td><strong>Total</strong></td><td></td><td align="right"><strong>{{.Total}}</strong></td></tr>
  </table>
  {{if .COD}}<p>Payment method: cash on delivery. Please keep {{.Total}} ready when your order arrives.</p>
  {{else}}<p>Payment method: {{.PaymentMethod}}. Your payment has been received.</p>{{end}}
  <p>— Dishari Cyber Café</p>
</body>
</html>`))

var contactConfirmationTmpl = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:Arial,sans-serif;color:#222">
  <h2>Hello {{.Name}},</h2>
  <p>We received your message about <strong>{{.Subject}}</strong> and will get back to you soon.</p>
  <blockquote style="border-left:3px solid #ccc;padding-left:10px;color:#555">{{.Message}}</blockquote>
  <p>— Dishari Cyber Café</p>
</body>
</html>`))
