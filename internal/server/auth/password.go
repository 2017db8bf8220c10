package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ArgonParams holds the argon2id cost settings. The parameters are embedded
// in every encoded hash, so they can be raised later without invalidating
// hashes already stored.
type ArgonParams struct {
	Memory      uint32 // KiB
	Time        uint32 // iterations
	Parallelism uint8
	SaltLen     int
	KeyLen      uint32
}

// DefaultArgon are the production cost settings.
var DefaultArgon = ArgonParams{
	Memory:      64 * 1024,
	Time:        3,
	Parallelism: 1,
	SaltLen:     16,
	KeyLen:      32,
}

// HashPassword derives an argon2id hash of password with a fresh random salt.
// Encoded format: argon2id$m=<M>,t=<T>,p=<P>$<b64(salt)>$<b64(key)>.
func HashPassword(p ArgonParams, password string) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
	return fmt.Sprintf("argon2id$m=%d,t=%d,p=%d$%s$%s",
		p.Memory, p.Time, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether password matches the encoded hash.
//
// The encoded string comes from storage and may be corrupted or forged, so
// malformed input returns false rather than an error. The final comparison is
// constant-time.
func VerifyPassword(password, encoded string) bool {
	const prefix = "argon2id$"
	if !strings.HasPrefix(encoded, prefix) {
		return false
	}
	parts := strings.Split(encoded[len(prefix):], "$")
	if len(parts) != 3 {
		return false
	}

	var m, t uint32
	var p uint8
	if _, err := fmt.Sscanf(parts[0], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return false
	}
	if m == 0 || t == 0 || p == 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	keyRef, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil || len(keyRef) == 0 {
		return false
	}

	key := argon2.IDKey([]byte(password), salt, t, m, p, uint32(len(keyRef)))
	return subtle.ConstantTimeCompare(key, keyRef) == 1
}
