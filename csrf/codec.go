package csrf

import (
	"encoding/base64"
	"strings"
)

// Encode returns the url-safe, unpadded base64 form of b.
//
// Params:
// - b: bytes to encode.
//
// Returns:
// - the base64url text without padding.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode reverses Encode. Canonically padded input is accepted as well;
// any other padding is rejected.
//
// Params:
// - s: base64url text, unpadded or padded to a multiple of 4.
//
// Returns:
// - the decoded bytes, or ErrEncoding for malformed input.
func Decode(s string) ([]byte, error) {
	enc := base64.RawURLEncoding.Strict()
	if strings.HasSuffix(s, "=") {
		enc = base64.URLEncoding.Strict()
	}
	b, err := enc.DecodeString(s)
	if err != nil {
		return nil, ErrEncoding
	}
	return b, nil
}
