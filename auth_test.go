package main

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestAuth(t *testing.T) (*Auth, *DB) {
	t.Helper()
	db := openTestDB(t)
	return NewAuth(db, zap.NewNop()), db
}

func TestRegisterValidation(t *testing.T) {
	a, _ := newTestAuth(t)

	cases := []struct {
		user, pass string
		wantSub    string
	}{
		{"a", "longenough", "characters"},
		{"thisnameisfartoolongtokeep", "longenough", "characters"},
		{"mallow", "abc", "at least"},
	}
	for _, tc := range cases {
		_, _, err := a.Register(tc.user, tc.pass)
		if err == nil || !strings.Contains(err.Error(), tc.wantSub) {
			t.Errorf("Register(%q, %q) err = %v, want substring %q", tc.user, tc.pass, err, tc.wantSub)
		}
	}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	a, db := newTestAuth(t)

	id, token, err := a.Register("mallow", "seeds")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id == 0 || token == "" {
		t.Fatalf("Register returned id %d, token %q", id, token)
	}
	if stats, err := db.GetStats(id); err != nil || stats == nil {
		t.Errorf("no stats row after register: %+v, %v", stats, err)
	}

	gotID, user, err := a.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if gotID != id || user != "mallow" {
		t.Errorf("token claims = %d, %q", gotID, user)
	}

	if _, _, err := a.Register("mallow", "seeds"); err == nil || !strings.Contains(err.Error(), "taken") {
		t.Errorf("repeat register err = %v", err)
	}

	loginID, loginTok, err := a.Login("mallow", "seeds", "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loginID != id {
		t.Errorf("login id = %d, want %d", loginID, id)
	}
	if _, _, err := a.ValidateToken(loginTok); err != nil {
		t.Errorf("login token rejected: %v", err)
	}

	// wrong password and unknown user fail the same way
	if _, _, err := a.Login("mallow", "wrong", "10.0.0.1"); err == nil || !strings.Contains(err.Error(), "invalid username or password") {
		t.Errorf("wrong password err = %v", err)
	}
	if _, _, err := a.Login("ghost", "seeds", "10.0.0.1"); err == nil || !strings.Contains(err.Error(), "invalid username or password") {
		t.Errorf("unknown user err = %v", err)
	}
}

func TestTokenTampering(t *testing.T) {
	a, db := newTestAuth(t)
	_, token, err := a.Register("mallow", "seeds")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := a.ValidateToken(token + "x"); err == nil {
		t.Error("forged signature accepted")
	}
	if _, _, err := a.ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token accepted")
	}

	// the signing secret is persisted, so a restarted Auth still honors
	// outstanding tokens
	b := NewAuth(db, zap.NewNop())
	if _, _, err := b.ValidateToken(token); err != nil {
		t.Errorf("token rejected after secret reload: %v", err)
	}
}

func TestLoginRateLimit(t *testing.T) {
	a, _ := newTestAuth(t)

	for i := 0; i < maxLoginAttempts; i++ {
		_, _, err := a.Login("ghost", "x", "10.9.9.9")
		if err == nil || strings.Contains(err.Error(), "too many") {
			t.Fatalf("attempt %d: err = %v", i, err)
		}
	}
	if _, _, err := a.Login("ghost", "x", "10.9.9.9"); err == nil || !strings.Contains(err.Error(), "too many") {
		t.Errorf("attempt past the limit err = %v", err)
	}
	// the window is per source address
	if _, _, err := a.Login("ghost", "x", "10.9.9.8"); err == nil || strings.Contains(err.Error(), "too many") {
		t.Errorf("fresh address err = %v", err)
	}
}
