package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := HashPasswordCost("password", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, []byte("password"), h)
	assert.True(t, CheckPassword(h, "password"))
	assert.False(t, CheckPassword(h, "wrong"))
	assert.False(t, CheckPassword(h, ""))
}

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	t.Parallel()

	a, err := HashPasswordCost("password", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPasswordCost("password", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, CheckPassword(a, "password"))
	assert.True(t, CheckPassword(b, "password"))
}

func TestHashPassword_DefaultCost(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("password")
	require.NoError(t, err)

	cost, err := bcrypt.Cost(h)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPassword([]byte("not-a-bcrypt-hash"), "password"))
	assert.False(t, CheckPassword(nil, "password"))
}

func TestHashPassword_TooLong(t *testing.T) {
	t.Parallel()

	_, err := HashPasswordCost(strings.Repeat("a", MaxPasswordBytes), bcrypt.MinCost)
	require.NoError(t, err)

	_, err = HashPasswordCost(strings.Repeat("a", MaxPasswordBytes+1), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
