package security_test

import (
	"strings"
	"testing"

	"github.com/geocoder89/formhub/internal/security"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherRoundTrip(t *testing.T) {
	h := security.Hasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("abcdef")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if hash == "abcdef" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if err := h.Check(hash, "abcdef"); err != nil {
		t.Fatalf("check: %v", err)
	}

	if err := h.Check(hash, "abcdeg"); err == nil {
		t.Fatalf("expected mismatch")
	}
}

func TestHasherFallsBackToDefaultCost(t *testing.T) {
	h := security.Hasher{Cost: 1}

	hash, err := h.Hash("abcdef")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("got cost %d, want %d", cost, bcrypt.DefaultCost)
	}
}

func TestHasherAcceptsLongSecrets(t *testing.T) {
	h := security.Hasher{Cost: bcrypt.MinCost}
	long := strings.Repeat("p", 73)

	hash, err := h.Hash(long)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if err := h.Check(hash, long); err != nil {
		t.Fatalf("check: %v", err)
	}

	// bytes past 72 still count
	if err := h.Check(hash, strings.Repeat("p", 72)+"q"); err == nil {
		t.Fatalf("expected mismatch on the final byte")
	}
}
