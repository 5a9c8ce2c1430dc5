// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Error("wrong password accepted")
	}
}

func TestManagerIssueVerify(t *testing.T) {
	m := NewManager("0123456789abcdef0123456789abcdef", time.Hour, "dishari")

	token, err := m.Issue("64f0c0ffee", "user@example.com", "Asha", "user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "64f0c0ffee" {
		t.Errorf("UserID = %q, want 64f0c0ffee", claims.UserID)
	}
	if claims.Role != "user" {
		t.Errorf("Role = %q, want user", claims.Role)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestManagerVerifyRejects(t *testing.T) {
	m := NewManager("0123456789abcdef0123456789abcdef", time.Hour, "dishari")
	other := NewManager("fedcba9876543210fedcba9876543210", time.Hour, "dishari")

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Verify("not.a.token"); err == nil {
			t.Error("garbage token accepted")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := other.Issue("u1", "a@b.c", "A", "user")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if _, err := m.Verify(token); err == nil {
			t.Error("token from wrong secret accepted")
		}
	})

	t.Run("expired", func(t *testing.T) {
		short := NewManager("0123456789abcdef0123456789abcdef", -time.Minute, "dishari")
		token, err := short.Issue("u1", "a@b.c", "A", "user")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if _, err := short.Verify(token); err != ErrExpiredToken {
			t.Errorf("err = %v, want ErrExpiredToken", err)
		}
	})
}

func TestMiddlewareGuards(t *testing.T) {
	m := NewManager("0123456789abcdef0123456789abcdef", time.Hour, "dishari")
	mw := NewMiddleware(m, "dishari_session")

	userToken, err := m.Issue("u1", "user@example.com", "Asha", "user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	adminToken, err := m.Issue("a1", "admin@example.com", "Rajat", "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name    string
		handler http.Handler
		token   string
		cookie  bool
		want    int
	}{
		{"auth anonymous", mw.RequireAuth(ok), "", false, http.StatusUnauthorized},
		{"auth bearer", mw.RequireAuth(ok), userToken, false, http.StatusOK},
		{"auth cookie", mw.RequireAuth(ok), userToken, true, http.StatusOK},
		{"admin anonymous", mw.RequireAdmin(ok), "", false, http.StatusUnauthorized},
		{"admin as user", mw.RequireAdmin(ok), userToken, false, http.StatusForbidden},
		{"admin as admin", mw.RequireAdmin(ok), adminToken, false, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.token != "" {
				if tt.cookie {
					req.AddCookie(&http.Cookie{Name: "dishari_session", Value: tt.token})
				} else {
					req.Header.Set("Authorization", "Bearer "+tt.token)
				}
			}
			rec := httptest.NewRecorder()
			mw.Authenticate(tt.handler).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestBearerWinsOverCookie(t *testing.T) {
	m := NewManager("0123456789abcdef0123456789abcdef", time.Hour, "dishari")
	mw := NewMiddleware(m, "dishari_session")

	token, err := m.Issue("u1", "user@example.com", "Asha", "user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var got string
	h := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := ClaimsFromContext(r.Context()); ok {
			got = c.UserID
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.AddCookie(&http.Cookie{Name: "dishari_session", Value: "stale-garbage"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got != "u1" {
		t.Errorf("claims user = %q, want u1", got)
	}
}
