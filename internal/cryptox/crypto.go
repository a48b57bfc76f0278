// Package cryptox holds the key-derivation primitives used by offline login.
package cryptox

import (
	"crypto/sha256"

	"golang.org/x/crypto/argon2"
)

// DeriveMasterKey derives a 32-byte key from a password and salt using
// Argon2id. Parameters are fixed; changing them invalidates cached verifiers.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier returns a value safe to store locally for later comparison.
// The master key itself is never persisted.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}
