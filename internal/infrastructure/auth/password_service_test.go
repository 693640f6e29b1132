package auth

import (
	"strings"
	"testing"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.Hash("Str0ng!Pass")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", hash)
	}
	if hash == "Str0ng!Pass" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !svc.Verify(hash, "Str0ng!Pass") {
		t.Error("correct password must verify")
	}
	if svc.Verify(hash, "wrong") {
		t.Error("wrong password must not verify")
	}
	if svc.Verify("not-a-hash", "Str0ng!Pass") {
		t.Error("malformed hash must not verify")
	}
}

func TestPasswordService_SaltedHashes(t *testing.T) {
	svc := NewPasswordService()
	first, err := svc.Hash("same-password")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Hash("same-password")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("bcrypt salting must make repeated hashes differ")
	}
}
