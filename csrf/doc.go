// Package csrf provides CSRF protection for Go servers using a signed
// double-submit cookie.
//
// How it works
//   - A random per-session secret is stored in a cookie (default
//     "_csrfSecret"). It is created on the first request that passes and is
//     never rewritten afterwards.
//   - Every response that passes receives a fresh token in the X-CSRF-Token
//     header. A token is a random salt followed by HMAC-SHA256(secret, salt),
//     so its value changes per response while the secret stays stable and no
//     server-side state is kept.
//   - Methods outside IgnoreMethods (default: everything except GET, HEAD and
//     OPTIONS) must submit a token through the X-CSRF-Token header, a
//     csrf_token field of a urlencoded or multipart form, or as the first
//     element of a JSON argument array (a string, or an object with a
//     csrf_token property). The body is buffered once and remains readable by
//     downstream handlers.
//
// # Layers
//
// Engine is framework-independent: it consumes a Request and a CookieJar and
// returns the token to send back, or an *Error. Protector adapts it to
// net/http; package gincsrf adapts it to gin. CreateSecret, CreateToken and
// VerifyToken are exported for callers that mint tokens themselves.
//
// Typical usage
//
//	p := csrf.New(csrf.Options{})
//	protected := p.Protect(appMux)
//	http.ListenAndServe(":8080", protected)
//
// In handlers, you can read the token from context for rendering:
//
//	if tok, ok := csrf.TokenFromContext(r.Context()); ok {
//	    // render tok into a hidden csrf_token field
//	}
package csrf
