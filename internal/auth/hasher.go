package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword produces the storable representation of a password: the
// SHA-512 digest rendered as hex. The encoding matters — digest bytes are
// not valid text and must never be interpreted as such. Deterministic by
// contract, so stored hashes remain comparable across processes.
func HashPassword(password string) string {
	sum := sha512.Sum512([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether password matches the stored hash. The
// comparison is constant-time; any mismatch, including a malformed stored
// value, yields false rather than an error.
func VerifyPassword(password, storedHash string) bool {
	computed := HashPassword(password)
	if len(computed) != len(storedHash) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
