package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ease-mdlwr/ease-mdlwr/internal/identity"
)

// Claims are the assertions embedded in an issued token.
type Claims struct {
	Username string
	Email    string
}

// ErrMalformedToken indicates a token that failed verification for any
// reason: bad signature, wrong algorithm, or garbage input.
var ErrMalformedToken = errors.New("auth: malformed or invalid token")

// TokenService signs and verifies HMAC-SHA384 tokens. The secret is
// injected once at construction and held for the service lifetime.
type TokenService struct {
	secret []byte
}

// NewTokenService constructs a TokenService over the shared secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a claims set asserting the user's identity and returns the
// compact token string.
func (s *TokenService) Issue(user *identity.User) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("auth: signing secret is empty")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{
		"username": user.Username,
		"email":    user.Email,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies a token's signature and returns its claims. Only
// HMAC-SHA384 is accepted; a token declaring any other algorithm fails
// closed regardless of its signature.
func (s *TokenService) Decode(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS384.Alg()}))
	if err != nil || !token.Valid {
		return Claims{}, ErrMalformedToken
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrMalformedToken
	}
	username, _ := mapClaims["username"].(string)
	email, _ := mapClaims["email"].(string)
	if username == "" {
		return Claims{}, ErrMalformedToken
	}
	return Claims{Username: username, Email: email}, nil
}
