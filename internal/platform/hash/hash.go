package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/alexedwards/argon2id"
)

// Hasher wraps the slow one-way hash used for passwords. The cost knob
// scales the argon2id time parameter; stored hashes are self-describing
// PHC strings, so old hashes stay comparable after a cost change.
type Hasher struct {
	params *argon2id.Params
}

func NewHasher(cost int) *Hasher {
	if cost < 1 {
		cost = 1
	}
	p := *argon2id.DefaultParams
	p.Iterations = uint32(cost)
	return &Hasher{params: &p}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := argon2id.CreateHash(plaintext, h.params)
	if err != nil {
		return "", fmt.Errorf("failed to hash: %w", err)
	}
	return hashed, nil
}

// Compare reports whether plaintext matches the stored hash. An error
// means the stored hash is malformed or the algorithm failed, not that
// the credential was wrong.
func (h *Hasher) Compare(plaintext, storedHash string) (bool, error) {
	match, err := argon2id.ComparePasswordAndHash(plaintext, storedHash)
	if err != nil {
		return false, fmt.Errorf("failed to compare hash: %w", err)
	}
	return match, nil
}

// HMAC returns the hex-encoded HMAC-SHA256 of value. Used for
// verification codes, which must be re-derivable and compared by
// equality rather than by a per-comparison verify call.
func HMAC(value, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}
