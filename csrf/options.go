// Package csrf provides signed double-submit-cookie CSRF protection.
package csrf

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultCookieName     = "_csrfSecret"
	defaultHeaderName     = "X-CSRF-Token"
	defaultFieldName      = "csrf_token"
	defaultSecretBytes    = 8
	defaultSaltBytes      = 8
	defaultMaxBodyBytes   = 10 << 20
	defaultResponseHeader = "X-CSRF-Token"
)

// ValueFunc extracts the submitted token from a request. An empty string means
// no token was found.
type ValueFunc func(ctx context.Context, req Request) string

// CookieOptions describes the cookie holding the encoded secret.
//
// When Name is set, the whole CookieOptions value replaces the defaults in
// MergeConfig, so boolean attributes can be switched off explicitly.
type CookieOptions struct {
	Name        string
	Path        string
	Domain      string
	MaxAge      int // in seconds, 0 means session cookie
	Secure      bool
	HTTPOnly    bool
	SameSite    http.SameSite
	Partitioned bool
}

// TokenOptions controls where tokens are read from and written to.
type TokenOptions struct {
	// ResponseHeader carries the freshly minted token back to the client.
	ResponseHeader string

	// HeaderName and FieldName are the request header and body field
	// searched by the default extractor.
	HeaderName string
	FieldName  string

	// Value overrides the default extractor when set.
	Value ValueFunc
}

// Config is the framework-independent configuration shared by every adapter.
type Config struct {
	// Requests whose path starts with one of these prefixes skip verification.
	ExcludePathPrefixes []string

	// Methods that skip verification but still receive a token.
	IgnoreMethods []string

	SecretByteLength int
	SaltByteLength   int

	// MaxBodyBytes bounds how much of a request body is buffered while
	// looking for a token. Larger bodies are passed on unread and never
	// searched, so clients sending big multipart uploads must put the token
	// in the request header instead.
	MaxBodyBytes int64

	Cookie CookieOptions
	Token  TokenOptions
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		ExcludePathPrefixes: []string{},
		IgnoreMethods:       []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		SecretByteLength:    defaultSecretBytes,
		SaltByteLength:      defaultSaltBytes,
		MaxBodyBytes:        defaultMaxBodyBytes,
		Cookie: CookieOptions{
			Name:     defaultCookieName,
			Path:     "/",
			Secure:   true,
			HTTPOnly: true,
			SameSite: http.SameSiteStrictMode,
		},
		Token: TokenOptions{
			ResponseHeader: defaultResponseHeader,
			HeaderName:     defaultHeaderName,
			FieldName:      defaultFieldName,
		},
	}
}

// MergeConfig returns base with every non-zero field of override applied on
// top of it. Slices are copied so the result never aliases its inputs.
//
// Params:
// - base: usually DefaultConfig().
// - override: caller settings; zero fields keep the base value.
//
// Returns:
// - the merged configuration with upper-cased IgnoreMethods.
func MergeConfig(base, override Config) Config {
	out := base
	if override.ExcludePathPrefixes != nil {
		out.ExcludePathPrefixes = override.ExcludePathPrefixes
	}
	if override.IgnoreMethods != nil {
		out.IgnoreMethods = override.IgnoreMethods
	}
	if override.SecretByteLength > 0 {
		out.SecretByteLength = override.SecretByteLength
	}
	if override.SaltByteLength > 0 {
		out.SaltByteLength = override.SaltByteLength
	}
	if override.MaxBodyBytes > 0 {
		out.MaxBodyBytes = override.MaxBodyBytes
	}
	if override.Cookie.Name != "" {
		out.Cookie = override.Cookie
		if out.Cookie.Path == "" {
			out.Cookie.Path = "/"
		}
	}
	if override.Token.ResponseHeader != "" {
		out.Token.ResponseHeader = override.Token.ResponseHeader
	}
	if override.Token.HeaderName != "" {
		out.Token.HeaderName = override.Token.HeaderName
	}
	if override.Token.FieldName != "" {
		out.Token.FieldName = override.Token.FieldName
	}
	if override.Token.Value != nil {
		out.Token.Value = override.Token.Value
	}

	out.ExcludePathPrefixes = append([]string(nil), out.ExcludePathPrefixes...)
	methods := make([]string, len(out.IgnoreMethods))
	for i, m := range out.IgnoreMethods {
		methods[i] = strings.ToUpper(m)
	}
	out.IgnoreMethods = methods
	return out
}

// Options configures the net/http middleware. It embeds the shared Config and
// adds the fields that only make sense for net/http.
type Options struct {
	Config

	// Extra security
	EnforceOriginCheck bool
	AllowedOrigin      string // if empty, uses r.Host

	// ErrorHandler is called when verification fails. The error is available
	// through FailureReason. Defaults to a plain 403 response.
	ErrorHandler http.Handler

	Logger *zap.Logger
}

// Protector is the net/http middleware built from Options.
type Protector struct {
	opts   Options
	engine *Engine
}

// New builds a Protector, filling unset fields with DefaultConfig values.
//
// Params:
// - opts: middleware options; the zero value is usable.
//
// Returns:
// - a Protector ready to wrap handlers with Protect.
func New(opts Options) *Protector {
	opts.Config = MergeConfig(DefaultConfig(), opts.Config)
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ErrorHandler == nil {
		opts.ErrorHandler = http.HandlerFunc(defaultErrorHandler)
	}
	return &Protector{
		opts:   opts,
		engine: NewEngine(opts.Config, opts.Logger),
	}
}

// Config returns the effective configuration.
func (p *Protector) Config() Config {
	return p.opts.Config
}
