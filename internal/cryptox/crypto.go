// Package cryptox implements password hashing for user credentials.
//
// Hashes are stored as "salt$digest" where salt is a random hex string
// and digest is the hex-encoded Argon2id key derived from the password
// and that salt. Verification recomputes the digest and compares in
// constant time, so stored hashes never reveal timing information.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/dmitrijs2005/fieldkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

const saltSize = 16

func deriveDigest(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
}

// HashPassword returns a salted hash of password in the "salt$digest" form.
// A fresh random salt is generated on every call, so hashing the same
// password twice produces different results.
func HashPassword(password string) (string, error) {
	salt, err := common.MakeRandHexString(saltSize)
	if err != nil {
		return "", err
	}
	digest := deriveDigest(password, []byte(salt))
	return salt + "$" + hex.EncodeToString(digest), nil
}

// VerifyPassword reports whether password matches the stored "salt$digest"
// hash. Malformed input yields false, never an error or panic.
func VerifyPassword(password string, hash string) bool {
	parts := strings.Split(hash, "$")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	digest := deriveDigest(password, []byte(parts[0]))
	computed := hex.EncodeToString(digest)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(parts[1])) == 1
}
