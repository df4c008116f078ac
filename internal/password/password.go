// Package password provides bcrypt hashing for user credentials. bcrypt
// embeds a per-call random salt in the digest, so no separate salt column
// is needed and two identical passwords produce different hashes.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/streamtube/streamtube-server/internal/model"
)

// DefaultCost is the bcrypt work factor used in production.
const DefaultCost = 12

var _ model.PasswordHasher = (*Hasher)(nil)

// Hasher implements PasswordHasher backed by bcrypt. The cost is injectable
// so tests can use the bcrypt minimum instead of paying for 2^12 rounds per
// call.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given cost. Costs below the bcrypt
// minimum fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash hashes the plaintext with bcrypt. The returned string embeds the
// salt and cost and is stored as-is.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		// bcrypt silently truncates beyond 72 bytes; reject instead.
		return "", fmt.Errorf("password must be 72 bytes or fewer")
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(digest), nil
}

// Verify reports whether plaintext matches a stored digest. The comparison
// is constant-time inside bcrypt.
func (h *Hasher) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("password mismatch")
		}
		return fmt.Errorf("failed to compare password hash: %w", err)
	}
	return nil
}
