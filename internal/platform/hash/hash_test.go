package hash_test

import (
	"strings"
	"testing"

	"github.com/nextgen/nextgen-api/internal/platform/hash"
)

func TestHashAndCompare(t *testing.T) {
	h := hash.NewHasher(1)

	hashed, err := h.Hash("P@ss1234")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hashed == "P@ss1234" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !strings.HasPrefix(hashed, "$argon2id$") {
		t.Fatalf("expected PHC argon2id string, got %q", hashed)
	}

	match, err := h.Compare("P@ss1234", hashed)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if !match {
		t.Fatal("correct password should match")
	}

	match, err = h.Compare("wrong-password", hashed)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if match {
		t.Fatal("wrong password should not match")
	}
}

func TestHashIsSalted(t *testing.T) {
	h := hash.NewHasher(1)

	a, err := h.Hash("same-input")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	b, err := h.Hash("same-input")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same input should differ")
	}
}

func TestCompareMalformedHash(t *testing.T) {
	h := hash.NewHasher(1)

	if _, err := h.Compare("anything", "not-a-phc-string"); err == nil {
		t.Fatal("expected an error for a malformed stored hash")
	}
}

func TestHMACDeterministic(t *testing.T) {
	a := hash.HMAC("42913", "secret")
	b := hash.HMAC("42913", "secret")
	if a != b {
		t.Fatal("HMAC must be deterministic for equal inputs")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex-encoded SHA-256 (64 chars), got %d", len(a))
	}
}

func TestHMACSensitivity(t *testing.T) {
	base := hash.HMAC("42913", "secret")

	if hash.HMAC("042913", "secret") == base {
		t.Fatal("padded and unpadded code strings must not collide")
	}
	if hash.HMAC("42913", "other-secret") == base {
		t.Fatal("different secrets must produce different digests")
	}
}
