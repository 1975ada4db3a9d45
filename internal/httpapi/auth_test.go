package httpapi

import (
	"testing"
	"time"

	"retailpos/backend/internal/domain"
	"retailpos/backend/internal/store/memory"
)

func newTestAuthManager(t *testing.T) *AuthManager {
	t.Helper()
	return NewAuthManager("test-secret-key-for-auth-tests", time.Hour, memory.NewSeeded())
}

func TestLoginAndParseTokenRoundTrip(t *testing.T) {
	auth := newTestAuthManager(t)

	resp, err := auth.Login(domain.LoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Role != domain.RoleAdmin {
		t.Errorf("role = %s, want admin", resp.Role)
	}

	actor, err := auth.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if actor.Username != "admin" || actor.Role != domain.RoleAdmin {
		t.Errorf("actor = %+v, want admin/admin", actor)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	auth := newTestAuthManager(t)

	if _, err := auth.Login(domain.LoginRequest{Username: "admin", Password: "nope"}); err == nil {
		t.Fatalf("expected wrong password to be rejected")
	}
	if _, err := auth.Login(domain.LoginRequest{Username: "ghost", Password: "admin123"}); err == nil {
		t.Fatalf("expected unknown user to be rejected")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	auth := newTestAuthManager(t)

	if _, err := auth.ParseToken("not.a.token"); err == nil {
		t.Fatalf("expected garbage token to be rejected")
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	auth := newTestAuthManager(t)
	other := NewAuthManager("another-secret-entirely-here!!!!", time.Hour, memory.NewSeeded())

	resp, err := other.Login(domain.LoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := auth.ParseToken(resp.AccessToken); err == nil {
		t.Fatalf("expected token signed with a different secret to be rejected")
	}
}

func TestEnsureAdminBootstrapsFreshStore(t *testing.T) {
	auth := NewAuthManager("test-secret-key-for-auth-tests", time.Hour, memory.New())

	if _, err := auth.Login(domain.LoginRequest{Username: "boss", Password: "boss-secret-1"}); err == nil {
		t.Fatalf("expected login to fail before bootstrap")
	}
	if err := auth.EnsureAdmin("boss", "boss-secret-1"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	resp, err := auth.Login(domain.LoginRequest{Username: "boss", Password: "boss-secret-1"})
	if err != nil {
		t.Fatalf("Login after bootstrap: %v", err)
	}
	if resp.Role != domain.RoleAdmin {
		t.Errorf("role = %s, want admin", resp.Role)
	}

	// Idempotent, and never overwrites an existing account.
	if err := auth.EnsureAdmin("boss", "different-password"); err != nil {
		t.Fatalf("EnsureAdmin second call: %v", err)
	}
	if _, err := auth.Login(domain.LoginRequest{Username: "boss", Password: "boss-secret-1"}); err != nil {
		t.Errorf("original password should still work: %v", err)
	}
}

func TestEnsureAdminRejectsWeakPassword(t *testing.T) {
	auth := newTestAuthManager(t)

	if err := auth.EnsureAdmin("boss", "short"); err == nil {
		t.Fatalf("expected short admin password to be rejected")
	}
}

func TestCreateCashierValidation(t *testing.T) {
	auth := newTestAuthManager(t)

	cases := []struct {
		name string
		req  domain.CashierCreateRequest
	}{
		{"short username", domain.CashierCreateRequest{Username: "ab", Password: "secret-1"}},
		{"short password", domain.CashierCreateRequest{Username: "dewi", Password: "abc"}},
		{"existing username", domain.CashierCreateRequest{Username: "cashier", Password: "secret-1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := auth.CreateCashier(tc.req); err == nil {
				t.Fatalf("expected %s to be rejected", tc.name)
			}
		})
	}

	created, err := auth.CreateCashier(domain.CashierCreateRequest{Username: "Dewi", Password: "secret-1"})
	if err != nil {
		t.Fatalf("CreateCashier: %v", err)
	}
	if created.Username != "dewi" {
		t.Errorf("username = %s, want lowercased dewi", created.Username)
	}
	if _, err := auth.Login(domain.LoginRequest{Username: "dewi", Password: "secret-1"}); err != nil {
		t.Errorf("new cashier login: %v", err)
	}
}
