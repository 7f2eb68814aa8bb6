// Package auth holds the credential primitives: salted password hashing and
// opaque identifier generation. It has no knowledge of HTTP or storage.
package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 32
	keyBytes   = 64
	iterations = 10000
)

// HashPassword derives a salted hash in "salt:hash" form. The salt is random,
// so hashing the same password twice yields different values.
func HashPassword(password string) string {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		// crypto/rand failing means the process has no usable entropy source.
		panic(err)
	}
	saltHex := hex.EncodeToString(salt)
	key := pbkdf2.Key([]byte(password), []byte(saltHex), iterations, keyBytes, sha512.New)
	return saltHex + ":" + hex.EncodeToString(key)
}

// VerifyPassword re-derives the hash with the stored salt and compares in
// constant time. Malformed stored values verify as false rather than erroring.
func VerifyPassword(password, stored string) bool {
	salt, want, ok := strings.Cut(stored, ":")
	if !ok || salt == "" || want == "" {
		return false
	}
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyBytes, sha512.New)
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(key)), []byte(want)) == 1
}

// GenerateID builds an opaque identifier: prefix, current time in base 36,
// and 8 random bytes. Uniqueness is probabilistic, which is acceptable at
// this scale; nothing depends on ids being sequential.
func GenerateID(prefix string) string {
	random := make([]byte, 8)
	if _, err := rand.Read(random); err != nil {
		panic(err)
	}
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return prefix + ts + "_" + hex.EncodeToString(random)
}
