package domain

import "testing"

func TestUser_HasCredentials(t *testing.T) {
	local := &User{PasswordHash: "hash", Providers: []string{ProviderLocal}}
	if !local.HasCredentials() {
		t.Error("account with a password hash must report credentials")
	}

	oauthOnly := &User{Providers: []string{"google"}}
	if oauthOnly.HasCredentials() {
		t.Error("provider-only account must not report credentials")
	}
}

func TestUser_AddProvider(t *testing.T) {
	user := &User{Providers: []string{ProviderLocal}}

	if !user.AddProvider("google") {
		t.Error("linking a new provider must report a change")
	}
	if user.AddProvider("google") {
		t.Error("relinking the same provider must be a no-op")
	}
	if user.AddProvider("  GOOGLE  ") {
		t.Error("provider matching must be case- and space-insensitive")
	}
	if user.AddProvider("") {
		t.Error("empty provider must be rejected")
	}
	if len(user.Providers) != 2 {
		t.Errorf("expected [local google], got %v", user.Providers)
	}
	if !user.HasProvider("google") || !user.HasProvider(ProviderLocal) {
		t.Error("both providers must be linked")
	}
}

func TestUser_Sanitized(t *testing.T) {
	user := &User{ID: 1, Email: "bob@x.com", Username: "bob", PasswordHash: "secret"}
	clean := user.Sanitized()

	if clean.PasswordHash != "" {
		t.Error("sanitized copy must not carry the password hash")
	}
	if user.PasswordHash != "secret" {
		t.Error("sanitizing must not mutate the original")
	}
	if clean.ID != user.ID || clean.Email != user.Email {
		t.Error("sanitized copy must keep the public fields")
	}
}
