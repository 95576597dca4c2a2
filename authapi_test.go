package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestLoginStoresCredentialPair(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm failed: %v", err)
		}
		if r.PostForm.Get("username") != "teacher@school.example" || r.PostForm.Get("password") != "pw-123" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "a1",
			"refresh_token": "r1",
			"token_type":    "bearer",
		})
	})
	c, _ := newTestClient(t, handler, nil)
	ctx := context.Background()

	if err := c.Login(ctx, "teacher@school.example", "pw-123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	pair, _ := c.Credentials(ctx)
	if pair.Access != "a1" || pair.Refresh != "r1" {
		t.Fatalf("unexpected stored pair %+v", pair)
	}
	if got := counterValue(c, MetricLoginSuccess); got != 1 {
		t.Fatalf("expected one login success, got %d", got)
	}
}

func TestLoginRejectedCredentials(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	})
	c, nav := newTestClient(t, handler, nil)

	err := c.Login(context.Background(), "teacher@school.example", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := counterValue(c, MetricLoginFailure); got != 1 {
		t.Fatalf("expected one login failure, got %d", got)
	}
	if nav.Count() != 0 {
		t.Fatalf("login rejection must not navigate, got %d", nav.Count())
	}
}

func TestRegisterSurfacesStatusError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Email already registered"})
	})
	c, _ := newTestClient(t, handler, nil)

	err := c.Register(context.Background(), RegisterRequest{
		Email:    "new@school.example",
		Password: "pw-123",
		FullName: "New Teacher",
	})

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusConflict || se.Detail != "Email already registered" {
		t.Fatalf("unexpected StatusError %+v", se)
	}
	if !strings.Contains(se.Error(), "Email already registered") {
		t.Fatalf("expected detail in message, got %q", se.Error())
	}
}

func TestAcceptInviteExpiredToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invite already accepted"})
	})
	c, _ := newTestClient(t, handler, nil)

	err := c.AcceptInvite(context.Background(), "tok-1", "pw-123")
	if !errors.Is(err, ErrInviteInvalid) {
		t.Fatalf("expected ErrInviteInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invite already accepted") {
		t.Fatalf("expected server detail in error, got %q", err.Error())
	}
}

func TestConfirmPasswordResetInvalidToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid or expired token"})
	})
	c, _ := newTestClient(t, handler, nil)

	err := c.ConfirmPasswordReset(context.Background(), "tok-1", "new-pw")
	if !errors.Is(err, ErrPasswordResetInvalid) {
		t.Fatalf("expected ErrPasswordResetInvalid, got %v", err)
	}
}

func TestRequestPasswordResetOK(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/forgot-password" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["email"] != "teacher@school.example" {
			t.Errorf("unexpected payload %v", payload)
		}
		w.WriteHeader(http.StatusAccepted)
	})
	c, _ := newTestClient(t, handler, nil)

	if err := c.RequestPasswordReset(context.Background(), "teacher@school.example"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
}

func TestLogoutClearsStoreWhenServerFails(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c, _ := newTestClient(t, handler, nil)
	ctx := context.Background()

	if err := c.SetCredentials(ctx, "a1", "r1"); err != nil {
		t.Fatalf("SetCredentials failed: %v", err)
	}
	if err := c.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	pair, _ := c.Credentials(ctx)
	if pair.Access != "" || pair.Refresh != "" {
		t.Fatalf("expected wiped store after logout, got %+v", pair)
	}
	if got := counterValue(c, MetricLogout); got != 1 {
		t.Fatalf("expected one logout, got %d", got)
	}
}

func TestStatusErrorWithoutDetail(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	c, _ := newTestClient(t, handler, nil)

	err := c.Register(context.Background(), RegisterRequest{Email: "x@y.example", Password: "pw"})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Detail != "" {
		t.Fatalf("expected empty detail, got %q", se.Detail)
	}
	if !strings.Contains(se.Error(), "502") {
		t.Fatalf("expected status in message, got %q", se.Error())
	}
}
