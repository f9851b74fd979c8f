// Package crypto provides the credential hashing used across the service:
// slow salted bcrypt digests for user passwords and SHA-256 digests with
// constant-time comparison for raw refresh-token values.
package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured. Cost 10
// keeps interactive login latency acceptable.
const DefaultCost = 10

// Hasher hashes and verifies secrets.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost. Costs below the
// bcrypt minimum fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// HashPassword generates a salted bcrypt digest of a password.
func (h *Hasher) HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(digest), err
}

// CheckPassword reports whether the password matches the stored digest.
func (h *Hasher) CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// HashToken computes the digest of a raw token value for storage. Tokens are
// high-entropy signed strings longer than bcrypt's 72-byte input limit, so
// they are digested with SHA-256 instead.
func (h *Hasher) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CheckToken reports whether the raw token matches the stored digest. The
// comparison is constant-time with respect to the digest contents.
func (h *Hasher) CheckToken(token, digest string) bool {
	computed := h.HashToken(token)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
