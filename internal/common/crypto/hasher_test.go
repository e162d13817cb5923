package crypto

import (
	"strings"
	"testing"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if hash == "secret1" {
		t.Error("hash must not equal the password")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected self-describing bcrypt hash, got %q", hash)
	}

	if err := hasher.Compare(hash, "secret1"); err != nil {
		t.Errorf("Compare with correct password: %v", err)
	}
	if err := hasher.Compare(hash, "secret2"); err == nil {
		t.Error("Compare with wrong password should fail")
	}
}

func TestBcryptHasher_DistinctPasswords(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("password-one")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if err := hasher.Compare(hash, "password-two"); err == nil {
		t.Error("hash of one password must not verify another")
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	hasher := NewBcryptHasher(4)

	testCases := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"garbage", "not-a-bcrypt-hash"},
		{"truncated", "$2a$12$tooshort"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := hasher.Compare(tc.hash, "whatever"); err == nil {
				t.Error("expected error for malformed hash")
			}
		})
	}
}

func TestNewBcryptHasher_CostOutOfRange(t *testing.T) {
	hasher := NewBcryptHasher(99)

	hash, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash with clamped cost: %v", err)
	}
	if err := hasher.Compare(hash, "secret1"); err != nil {
		t.Errorf("Compare after clamped cost: %v", err)
	}
}
