package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// PasswordHasher hashes at a fixed cost and can burn an equivalent comparison
// when there is no stored hash to compare against.
type PasswordHasher struct {
	cost      int
	dummyOnce sync.Once
	dummy     string
}

// NewPasswordHasher clamps cost into bcrypt's accepted range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of plain.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	return HashPassword(plain, h.cost)
}

// Compare reports a non-nil error when plain does not match hashed.
func (h *PasswordHasher) Compare(hashed, plain string) error {
	return ComparePassword(hashed, plain)
}

// CompareDummy spends the same work as Compare against a throwaway hash.
func (h *PasswordHasher) CompareDummy(plain string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = HashPassword("not-a-real-password", h.cost)
	})
	_ = ComparePassword(h.dummy, plain)
}
