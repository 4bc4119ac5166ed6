package csrf

import (
	"crypto/rand"
	"errors"
)

// Secret is the per-session key stored in the secret cookie.
type Secret []byte

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// CreateSecret returns a new random secret.
//
// Params:
// - n: secret length in bytes; values <= 0 fall back to 8.
//
// Returns:
// - n bytes read from crypto/rand, or the random source error.
func CreateSecret(n int) (Secret, error) {
	if n <= 0 {
		n = defaultSecretBytes
	}
	return randomBytes(n)
}

// EncodeSecret returns the cookie form of s.
func EncodeSecret(s Secret) string {
	return Encode(s)
}

// DecodeSecret parses the cookie form of a secret.
//
// Params:
// - v: the cookie value produced by EncodeSecret.
//
// Returns:
// - the secret; an *Error of kind InvalidSecretEncoding when v is empty or malformed.
func DecodeSecret(v string) (Secret, error) {
	if v == "" {
		return nil, newError(InvalidSecretEncoding, errors.New("empty secret"))
	}
	b, err := Decode(v)
	if err != nil {
		return nil, newError(InvalidSecretEncoding, err)
	}
	if len(b) == 0 {
		return nil, newError(InvalidSecretEncoding, errors.New("empty secret"))
	}
	return b, nil
}

// ObtainSecret returns the secret stored under name in jar. A missing or
// undecodable cookie is replaced by a fresh secret, reported with isNew set.
//
// Params:
// - jar: cookie access for the current request.
// - name: secret cookie name.
// - n: length of a newly generated secret.
//
// Returns:
// - the secret, whether it was just generated, and an error only when the
//   random source fails.
func ObtainSecret(jar CookieJar, name string, n int) (secret Secret, isNew bool, err error) {
	if v, ok := jar.Get(name); ok {
		if s, err := DecodeSecret(v); err == nil {
			return s, false, nil
		}
	}
	secret, err = CreateSecret(n)
	if err != nil {
		return nil, false, err
	}
	return secret, true, nil
}
