package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLength  = 32
	saltLength       = 16
)

// HashPassword derives a PBKDF2-SHA256 digest over the password with a
// fresh random salt. Stored form is hex(salt) ":" hex(digest), so two
// calls with the same password never produce the same string.
func HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password is empty")
	}
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	digest := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(digest), nil
}

// VerifyPassword recomputes the digest with the stored salt and compares
// in constant time. A malformed stored hash yields false, never an error.
func VerifyPassword(password, stored string) bool {
	salt, digest, ok := splitStoredHash(stored)
	if !ok {
		return false
	}
	candidate := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}

func splitStoredHash(stored string) (salt, digest []byte, ok bool) {
	parts := strings.Split(stored, ":")
	if len(parts) != 2 {
		return nil, nil, false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil || len(salt) == 0 {
		return nil, nil, false
	}
	digest, err = hex.DecodeString(parts[1])
	if err != nil || len(digest) == 0 {
		return nil, nil, false
	}
	return salt, digest, true
}
