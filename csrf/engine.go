package csrf

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Engine runs the per-request CSRF state machine independently of any HTTP
// framework. It is immutable and safe for concurrent use.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// NewEngine builds an Engine. Unset fields of cfg take DefaultConfig values.
//
// Params:
// - cfg: shared configuration.
// - logger: destination for rejection logs; nil disables logging.
//
// Returns:
// - a ready Engine.
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:    MergeConfig(DefaultConfig(), cfg),
		logger: logger,
	}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Protect verifies req when its method requires it and returns a fresh token
// for the response.
//
// Behavior:
//   - Excluded paths never generate or persist a secret. A token is minted
//     only when a valid secret cookie is already present; otherwise "" is
//     returned.
//   - Ignored methods skip verification.
//   - On verification failure an *Error is returned, no token is minted and
//     no cookie is written.
//   - A newly generated secret is written to jar only after success.
//
// Params:
// - ctx: request context, passed to the TokenOptions.Value override.
// - req: request view used for path, method, headers and body.
// - jar: cookie access used to read and persist the secret.
//
// Returns:
// - the token for the response header ("" for excluded paths without a
//   secret), an *Error on verification failure, or a random source error.
func (e *Engine) Protect(ctx context.Context, req Request, jar CookieJar) (string, error) {
	cfg := e.cfg
	var path string
	if u := req.URL(); u != nil {
		path = u.Path
	}

	if e.excluded(path) {
		v, ok := jar.Get(cfg.Cookie.Name)
		if !ok {
			return "", nil
		}
		secret, err := DecodeSecret(v)
		if err != nil {
			return "", nil
		}
		return CreateToken(secret, cfg.SaltByteLength)
	}

	secret, isNew, err := ObtainSecret(jar, cfg.Cookie.Name, cfg.SecretByteLength)
	if err != nil {
		return "", err
	}

	if !e.ignored(req.Method()) {
		if err := e.verify(ctx, req, secret); err != nil {
			var cerr *Error
			if errors.As(err, &cerr) {
				e.logger.Warn("csrf verification failed",
					zap.String("kind", cerr.Kind.String()),
					zap.String("method", req.Method()),
					zap.String("path", path),
				)
			}
			return "", err
		}
	}

	token, err := CreateToken(secret, cfg.SaltByteLength)
	if err != nil {
		return "", err
	}

	if isNew {
		jar.Set(e.secretCookie(secret))
		e.logger.Debug("issued csrf secret", zap.String("path", path))
	}
	return token, nil
}

func (e *Engine) verify(ctx context.Context, req Request, secret Secret) error {
	if len(secret) == 0 {
		return newError(MissingSecret, nil)
	}

	var token string
	if e.cfg.Token.Value != nil {
		token = e.cfg.Token.Value(ctx, req)
	} else {
		token = Extract(req, e.cfg.Token)
	}
	if token == "" {
		return newError(MissingToken, nil)
	}
	return VerifyToken(token, secret, e.cfg.SaltByteLength)
}

func (e *Engine) excluded(path string) bool {
	for _, prefix := range e.cfg.ExcludePathPrefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (e *Engine) ignored(method string) bool {
	return slices.Contains(e.cfg.IgnoreMethods, strings.ToUpper(method))
}

func (e *Engine) secretCookie(secret Secret) *http.Cookie {
	c := e.cfg.Cookie
	return &http.Cookie{
		Name:        c.Name,
		Value:       EncodeSecret(secret),
		Path:        c.Path,
		Domain:      c.Domain,
		MaxAge:      c.MaxAge,
		Secure:      c.Secure,
		HttpOnly:    c.HTTPOnly,
		SameSite:    c.SameSite,
		Partitioned: c.Partitioned,
	}
}
