// Package password implements the stored credential format
//
//	base64(sha3-256(password + salt)) + "." + salt
//
// The single "." separator is part of the on-disk contract; stored
// values with any other shape are rejected as malformed, never a
// crash.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/baajur/users/internal/errs"
)

const saltLen = 10

// Hash digests password with the given salt into the stored format.
func Hash(password, salt string) string {
	sum := sha3.Sum256([]byte(password + salt))
	return base64.StdEncoding.EncodeToString(sum[:]) + "." + salt
}

// New hashes password with a fresh salt.
//
// The salt is the truncated decimal text of a random 64-bit value.
// Known weakness: far less entropy than a dedicated KDF salt, kept
// for compatibility with existing stored hashes.
func New(password string) string {
	return Hash(password, newSalt())
}

// Verify checks password against a stored hash. A stored value that
// does not split into exactly two parts is reported as malformed.
func Verify(stored, password string) (bool, error) {
	parts := strings.Split(stored, ".")
	if len(parts) != 2 {
		return false, errs.Validation("password", "Password in db has wrong format")
	}
	digest, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false, errs.Validation("password", "Password in db has wrong format")
	}
	sum := sha3.Sum256([]byte(password + parts[1]))
	return subtle.ConstantTimeCompare(digest, sum[:]) == 1, nil
}

func newSalt() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err) // crypto/rand failure means the process is unusable
	}
	dec := strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 10)
	if len(dec) > saltLen {
		dec = dec[:saltLen]
	}
	return dec
}
