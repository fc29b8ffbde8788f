package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	require.NoError(t, h.Compare(hash, "s3cret-pass"))
	require.ErrorIs(t, h.Compare(hash, "wrong-pass"), ErrMismatch)
}

func TestCompareWithoutStoredHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	require.ErrorIs(t, h.Compare("", "anything"), ErrMismatch)
	require.ErrorIs(t, h.Compare("not-a-bcrypt-hash", "anything"), ErrMismatch)
}

func TestValidateLength(t *testing.T) {
	require.ErrorIs(t, Validate("short"), ErrTooShort)
	require.ErrorIs(t, Validate(strings.Repeat("a", 73)), ErrTooLong)
	require.NoError(t, Validate("long-enough"))
}
