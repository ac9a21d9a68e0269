package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestHashPassword(t *testing.T) {
	t.Run("rejects short passwords", func(t *testing.T) {
		_, err := HashPasswordWithCost("short", bcrypt.MinCost)
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("round trip", func(t *testing.T) {
		hash, err := HashPasswordWithCost("123password", bcrypt.MinCost)
		require.NoError(t, err)

		assert.NoError(t, VerifyPassword("123password", hash))
		assert.ErrorIs(t, VerifyPassword("wrong-password", hash), ErrPasswordMismatch)
	})
}

func TestTokenIssuer(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, "shopapi", time.Hour)
	require.NoError(t, err)

	t.Run("issue and parse", func(t *testing.T) {
		token, expires, err := issuer.Issue(42, "oliver@queen.com")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

		claims, err := issuer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "oliver@queen.com", claims.Email)

		id, err := claims.CustomerID()
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
	})

	t.Run("expired", func(t *testing.T) {
		token, _, err := issuer.Issue(42, "oliver@queen.com")
		require.NoError(t, err)

		later := *issuer
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		_, err = later.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered", func(t *testing.T) {
		token, _, err := issuer.Issue(42, "oliver@queen.com")
		require.NoError(t, err)

		_, err = issuer.Parse(token[:strings.LastIndex(token, ".")] + ".invalidsignature")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewTokenIssuer(strings.Repeat("x", 32), "shopapi", time.Hour)
		require.NoError(t, err)
		token, _, err := other.Issue(42, "oliver@queen.com")
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		other, err := NewTokenIssuer(testSecret, "someone-else", time.Hour)
		require.NoError(t, err)
		token, _, err := other.Issue(42, "oliver@queen.com")
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("subject without customer", func(t *testing.T) {
		for _, id := range []int64{0, -1} {
			token, _, err := issuer.Issue(id, "oliver@queen.com")
			require.NoError(t, err)

			_, err = issuer.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		}
	})
}

func TestNewTokenIssuer_ShortSecret(t *testing.T) {
	_, err := NewTokenIssuer("short", "shopapi", time.Hour)
	assert.ErrorIs(t, err, ErrSecretTooShort)
}
