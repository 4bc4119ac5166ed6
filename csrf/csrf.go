package csrf

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Protect wraps the given next http.Handler and enforces CSRF protection.
//
// Behavior:
//   - Ensures the secret cookie exists, creating it on the first successful
//     request.
//   - For methods outside IgnoreMethods: optionally validates Origin/Referer
//     (when EnforceOriginCheck is true), extracts the client token from the
//     header or body, and verifies it against the secret.
//   - On success, writes a fresh token to the response header and the request
//     context, then calls next.
//   - On failure, calls ErrorHandler (403 by default) without writing any
//     cookie or token.
//
// Params:
// - next: downstream handler to be executed after CSRF checks pass.
//
// Returns:
// - An http.Handler that performs the CSRF logic before delegating to next.
func (p *Protector) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		opts := p.opts

		if opts.EnforceOriginCheck && !p.engine.ignored(r.Method) && !p.engine.excluded(r.URL.Path) {
			if err := validateOriginOrReferer(r, opts.AllowedOrigin); err != nil {
				opts.Logger.Warn("csrf origin check failed",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				p.fail(w, r, err)
				return
			}
		}

		req := NewHTTPRequest(r, opts.MaxBodyBytes)
		token, err := p.engine.Protect(r.Context(), req, NewHTTPCookieJar(w, r))
		if err != nil {
			if IsCsrfError(err) {
				p.fail(w, r, err)
				return
			}
			opts.Logger.Error("csrf protection failed", zap.Error(err))
			http.Error(w, "failed to issue CSRF token", http.StatusInternalServerError)
			return
		}

		if token != "" {
			w.Header().Set(opts.Token.ResponseHeader, token)
			r = r.WithContext(contextWithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

func (p *Protector) fail(w http.ResponseWriter, r *http.Request, err error) {
	r = r.WithContext(context.WithValue(r.Context(), failureKey, err))
	p.opts.ErrorHandler.ServeHTTP(w, r)
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "invalid csrf token", http.StatusForbidden)
}

// FailureReason returns the error that made the middleware reject r. It is
// meant to be called from a custom ErrorHandler.
//
// Params:
// - r: the request passed to ErrorHandler.
//
// Returns:
// - an *Error, an error wrapping ErrBadOrigin, or nil outside ErrorHandler.
func FailureReason(r *http.Request) error {
	if err, ok := r.Context().Value(failureKey).(error); ok {
		return err
	}
	return nil
}

// ErrBadOrigin is reported by FailureReason when the Origin/Referer check fails.
var ErrBadOrigin = errors.New("csrf: origin not allowed")

// TokenFromContext returns the CSRF token stored in ctx, if present.
//
// Params:
// - ctx: context potentially containing a token set by the middleware.
//
// Returns:
// - token (string) and a boolean indicating whether a token was found.
func TokenFromContext(ctx context.Context) (string, bool) {
	return tokenFromContext(ctx)
}

// TokenHandler returns an HTTP handler that writes the current CSRF token.
// This is useful for SPAs to fetch the token and attach it to subsequent requests.
//
// Returns:
// - http.Handler that responds with the token in the response body (text/plain).
func (p *Protector) TokenHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok, ok := TokenFromContext(r.Context()); ok {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte(tok))
			return
		}
		http.Error(w, "no token", http.StatusInternalServerError)
	})
}
