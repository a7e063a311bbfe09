package auth

import (
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ease-mdlwr/ease-mdlwr/internal/identity"
)

func testUser() *identity.User {
	return &identity.User{
		Username: "alice",
		Email:    "alice@example.com",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := svc.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestTokenIssueEmptySecret(t *testing.T) {
	svc := NewTokenService("")
	_, err := svc.Issue(testUser())
	require.Error(t, err)
}

func TestTokenDecodeWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Decode(token)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestTokenDecodeTampered(t *testing.T) {
	svc := NewTokenService("test-secret")
	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip one character of the payload, then of the signature. Either
	// change must fail verification.
	for _, idx := range []int{1, 2} {
		tampered := make([]string, 3)
		copy(tampered, parts)
		tampered[idx] = flipChar(parts[idx])
		_, err := svc.Decode(strings.Join(tampered, "."))
		assert.ErrorIs(t, err, ErrMalformedToken, "tampered part %d must be rejected", idx)
	}
}

func TestTokenDecodeRejectsOtherAlgorithms(t *testing.T) {
	secret := "test-secret"
	svc := NewTokenService(secret)

	// A token signed with HS256 under the same secret carries a valid
	// signature but the wrong algorithm; it must fail closed.
	hs256 := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"email":    "alice@example.com",
	})
	signed, err := hs256.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = svc.Decode(signed)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestTokenDecodeGarbage(t *testing.T) {
	svc := NewTokenService("test-secret")
	for _, garbage := range []string{"", "x", "a.b", "a.b.c", "...."} {
		_, err := svc.Decode(garbage)
		assert.ErrorIs(t, err, ErrMalformedToken, "input %q", garbage)
	}
}

func TestTokenDecodeMissingUsernameClaim(t *testing.T) {
	secret := "test-secret"
	token := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{"email": "a@b.c"})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenService(secret).Decode(signed)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

// flipChar changes the first character to a different base64url character.
func flipChar(s string) string {
	replacement := byte('A')
	if s[0] == 'A' {
		replacement = 'B'
	}
	return string(replacement) + s[1:]
}
