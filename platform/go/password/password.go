// Package password hashes and compares principal passwords with bcrypt.
package password

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinLength is the minimum accepted password length.
const MinLength = 6

var (
	ErrMismatch = errors.New("password mismatch")
	ErrTooShort = errors.New("password is too short")
	ErrTooLong  = errors.New("password exceeds 72 bytes")
)

// dummyHash is compared against when no stored hash exists so a missing user costs one bcrypt round.
var dummyHash = mustHash("portfolio-dummy-password")

// Hasher wraps bcrypt with a configurable cost.
type Hasher struct {
	cost int
}

// NewHasher builds a Hasher; cost <= 0 uses bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of plain after length checks.
func (h *Hasher) Hash(plain string) (string, error) {
	if err := Validate(plain); err != nil {
		return "", err
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Compare checks plain against hash. An empty hash still performs a comparison
// and always reports ErrMismatch.
func (h *Hasher) Compare(hash, plain string) error {
	if strings.TrimSpace(hash) == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
		return ErrMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return ErrMismatch
	}
	return nil
}

// Validate enforces the password length rules.
func Validate(plain string) error {
	if len(plain) < MinLength {
		return ErrTooShort
	}
	if len(plain) > 72 {
		return ErrTooLong
	}
	return nil
}

func mustHash(plain string) []byte {
	out, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return out
}
