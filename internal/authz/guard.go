// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

// Package authz implements the cross-cutting route guard: a pure
// decision table from (route class, visitor role) to allow/redirect,
// evaluated once per request ahead of page handlers. Keeping the table
// pure makes every routing rule unit-testable without a server.
package authz

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rajat-k-27/dishari/internal/auth"
	"github.com/rajat-k-27/dishari/internal/models"
)

// RouteClass partitions the URL space for access-control purposes.
type RouteClass int

// Route classes, from most to least specific.
const (
	RouteAdminLogin RouteClass = iota // the admin sign-in page itself
	RouteAdmin                        // everything else under /admin
	RouteAPI                          // /api/*, guarded by handler-level auth
	RouteCartCheckout                 // cart and checkout pages
	RouteAuthPage                     // customer sign-in and registration pages
	RoutePublic                       // everything else
)

// Role is the visitor's effective role for guard decisions.
type Role int

// Visitor roles.
const (
	RoleAnonymous Role = iota
	RoleUser
	RoleAdmin
)

// Decision is the guard's verdict for one request.
type Decision struct {
	Allow bool

	// RedirectTo is the redirect target when Allow is false.
	RedirectTo string

	// WithCallback appends the original path as a callbackUrl query
	// parameter, so sign-in can return the visitor where they started.
	WithCallback bool
}

var allow = Decision{Allow: true}

func redirect(to string) Decision { return Decision{RedirectTo: to} }

func redirectWithCallback(to string) Decision {
	return Decision{RedirectTo: to, WithCallback: true}
}

// Classify maps a request path to its route class.
func Classify(path string) RouteClass {
	switch {
	case path == "/admin/login":
		return RouteAdminLogin
	case path == "/admin" || strings.HasPrefix(path, "/admin/"):
		return RouteAdmin
	case strings.HasPrefix(path, "/api/"):
		return RouteAPI
	case path == "/cart" || path == "/checkout" || strings.HasPrefix(path, "/checkout/"):
		return RouteCartCheckout
	case path == "/login" || path == "/register":
		return RouteAuthPage
	default:
		return RoutePublic
	}
}

// decisions is the full access-control table. Rules, in effect:
// the admin login page is always reachable but bounces a signed-in
// admin to the dashboard; API routes pass through to handler-level
// auth; admin pages require the admin role (anonymous visitors go to
// admin login, customers go home); a signed-in admin is bounced to the
// dashboard from every storefront page except auth pages; cart and
// checkout require a session and send anonymous visitors to sign-in
// with a callback; everything else is public.
var decisions = map[RouteClass]map[Role]Decision{
	RouteAdminLogin: {
		RoleAnonymous: allow,
		RoleUser:      allow,
		RoleAdmin:     redirect("/admin"),
	},
	RouteAdmin: {
		RoleAnonymous: redirect("/admin/login"),
		RoleUser:      redirect("/"),
		RoleAdmin:     allow,
	},
	RouteAPI: {
		RoleAnonymous: allow,
		RoleUser:      allow,
		RoleAdmin:     allow,
	},
	RouteCartCheckout: {
		RoleAnonymous: redirectWithCallback("/login"),
		RoleUser:      allow,
		RoleAdmin:     redirect("/admin"),
	},
	RouteAuthPage: {
		RoleAnonymous: allow,
		RoleUser:      allow,
		RoleAdmin:     allow,
	},
	RoutePublic: {
		RoleAnonymous: allow,
		RoleUser:      allow,
		RoleAdmin:     redirect("/admin"),
	},
}

// Evaluate returns the guard verdict for one route class and role.
func Evaluate(class RouteClass, role Role) Decision {
	return decisions[class][role]
}

// roleFromClaims derives the guard role from session claims.
func roleFromClaims(claims *auth.Claims, ok bool) Role {
	if !ok {
		return RoleAnonymous
	}
	if claims.Role == models.RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Middleware applies the decision table to page requests. It expects
// auth.Middleware.Authenticate to have already attached any session
// claims to the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := roleFromClaims(auth.ClaimsFromContext(r.Context()))
		d := Evaluate(Classify(r.URL.Path), role)
		if d.Allow {
			next.ServeHTTP(w, r)
			return
		}

		target := d.RedirectTo
		if d.WithCallback {
			target += "?callbackUrl=" + url.QueryEscape(r.URL.RequestURI())
		}
		http.Redirect(w, r, target, http.StatusFound)
	})
}
