package csrf

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// validateOriginOrReferer checks whether the request is same-site according to
// the allowed host policy. When allowed is empty, it falls back to r.Host.
// It prefers the Origin header; if empty, it falls back to Referer.
//
// Returns:
// - nil when origin/referrer is acceptable; otherwise an error wrapping ErrBadOrigin.
func validateOriginOrReferer(r *http.Request, allowed string) error {
	host := allowed
	if host == "" {
		host = r.Host
	}

	origin := r.Header.Get("Origin")
	ref := r.Header.Get("Referer")

	switch {
	case origin == "" && ref == "":
		return fmt.Errorf("%w: no origin/referer", ErrBadOrigin)
	case origin != "" && !sameSite(origin, host):
		return fmt.Errorf("%w: bad origin %q", ErrBadOrigin, origin)
	case origin == "" && !sameSite(ref, host):
		return fmt.Errorf("%w: bad referer", ErrBadOrigin)
	}
	return nil
}

// sameSite compares only the host part (port included) of originOrRef.
func sameSite(originOrRef, allowedHost string) bool {
	u, err := url.Parse(originOrRef)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, allowedHost)
}
