package csrf

import "errors"

// ErrorKind distinguishes the reasons a request fails CSRF verification.
type ErrorKind int

const (
	// MissingSecret means verification ran without a usable secret.
	MissingSecret ErrorKind = iota + 1
	// InvalidSecretEncoding means the secret cookie could not be decoded.
	InvalidSecretEncoding
	// MissingToken means no token was submitted.
	MissingToken
	// InvalidTokenEncoding means the submitted token is malformed or too short.
	InvalidTokenEncoding
	// TokenMismatch means the token was not derived from the current secret.
	TokenMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case MissingSecret:
		return "missing_secret"
	case InvalidSecretEncoding:
		return "invalid_secret_encoding"
	case MissingToken:
		return "missing_token"
	case InvalidTokenEncoding:
		return "invalid_token_encoding"
	case TokenMismatch:
		return "token_mismatch"
	}
	return "unknown"
}

// Error is returned for every verification failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	msg := "csrf: " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCsrf or an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if target == ErrCsrf {
		return true
	}
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	// ErrCsrf matches any verification failure with errors.Is.
	ErrCsrf = errors.New("csrf: verification failed")

	ErrMissingSecret         = &Error{Kind: MissingSecret}
	ErrInvalidSecretEncoding = &Error{Kind: InvalidSecretEncoding}
	ErrMissingToken          = &Error{Kind: MissingToken}
	ErrInvalidTokenEncoding  = &Error{Kind: InvalidTokenEncoding}
	ErrTokenMismatch         = &Error{Kind: TokenMismatch}

	// ErrEncoding is returned by Decode for malformed input.
	ErrEncoding = errors.New("csrf: malformed encoding")
)

// IsCsrfError reports whether err is a verification failure rather than an
// environmental fault.
func IsCsrfError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
