package csrf

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
)

func digest(secret Secret, salt []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(salt)
	return mac.Sum(nil)
}

// CreateToken mints a token bound to secret: a random salt of saltLen bytes
// followed by HMAC-SHA256(secret, salt), in Encode form.
//
// Params:
// - secret: the session secret; must not be empty.
// - saltLen: salt length in bytes; values <= 0 fall back to 8.
//
// Returns:
// - the encoded token, an *Error of kind MissingSecret, or the random source error.
func CreateToken(secret Secret, saltLen int) (string, error) {
	if len(secret) == 0 {
		return "", newError(MissingSecret, nil)
	}
	if saltLen <= 0 {
		saltLen = defaultSaltBytes
	}
	salt, err := randomBytes(saltLen)
	if err != nil {
		return "", err
	}
	return Encode(append(salt, digest(secret, salt)...)), nil
}

// VerifyToken checks that token was minted from secret with the given salt
// length. The digest is compared in constant time.
//
// Params:
// - token: the submitted token.
// - secret: the current session secret.
// - saltLen: salt length used when the token was minted.
//
// Returns:
// - nil on success; otherwise an *Error of kind MissingSecret, MissingToken,
//   InvalidTokenEncoding or TokenMismatch.
func VerifyToken(token string, secret Secret, saltLen int) error {
	if len(secret) == 0 {
		return newError(MissingSecret, nil)
	}
	if token == "" {
		return newError(MissingToken, nil)
	}
	if saltLen <= 0 {
		saltLen = defaultSaltBytes
	}

	raw, err := Decode(token)
	if err != nil {
		return newError(InvalidTokenEncoding, err)
	}
	if len(raw) <= saltLen {
		return newError(InvalidTokenEncoding, fmt.Errorf("token is %d bytes, want more than %d", len(raw), saltLen))
	}

	salt, claimed := raw[:saltLen], raw[saltLen:]
	if !hmac.Equal(claimed, digest(secret, salt)) {
		return newError(TokenMismatch, errors.New("digest does not match secret"))
	}
	return nil
}
