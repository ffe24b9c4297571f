package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	password := "correct horse battery staple"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash should be PHC argon2id encoded, got %q", hash)
	}

	ok, err := CheckPasswordHash(hash, password)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !ok {
		t.Error("correct password should verify")
	}

	ok, err = CheckPasswordHash(hash, "wrong password")
	if err != nil {
		t.Fatalf("check with wrong password should not error: %v", err)
	}
	if ok {
		t.Error("wrong password should not verify")
	}
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	hash1, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	hash2, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}

	if hash1 == hash2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestCheckPasswordHashInvalidHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not phc", "plainly not a hash"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$a2V5"},
		{"wrong version", "$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$a2V5"},
		{"missing fields", "$argon2id$v=19$m=65536,t=1,p=4"},
		{"bad params", "$argon2id$v=19$m=0,t=0,p=0$c2FsdA$a2V5"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=1,p=4$!!!$a2V5"},
		{"bad key encoding", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CheckPasswordHash(tt.hash, "whatever")
			if !errors.Is(err, ErrInvalidHash) {
				t.Errorf("CheckPasswordHash(%q) error = %v, want ErrInvalidHash", tt.hash, err)
			}
		})
	}
}
