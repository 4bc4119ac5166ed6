package csrf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Request is the read-only view of an incoming request used by the engine.
type Request interface {
	Method() string
	URL() *url.URL
	// Header returns the first value of the named header, case-insensitively.
	Header(name string) string
	// Body returns the buffered request body. Repeated calls return the same
	// bytes without touching the underlying stream again.
	Body() ([]byte, error)
}

// CookieJar gives the engine access to the secret cookie.
type CookieJar interface {
	Get(name string) (string, bool)
	Set(c *http.Cookie)
}

var errBodyTooLarge = errors.New("request body exceeds limit")

type httpRequest struct {
	r       *http.Request
	maxBody int64

	read bool
	body []byte
	err  error
}

// NewHTTPRequest adapts r to Request. The body is read at most once, up to
// maxBody bytes, and r.Body is replaced so downstream handlers still see the
// complete stream.
//
// Params:
// - r: the incoming request.
// - maxBody: buffering limit in bytes; values <= 0 fall back to 10 MiB.
//
// Returns:
// - a Request backed by r.
func NewHTTPRequest(r *http.Request, maxBody int64) Request {
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	return &httpRequest{r: r, maxBody: maxBody}
}

func (h *httpRequest) Method() string { return h.r.Method }

func (h *httpRequest) URL() *url.URL { return h.r.URL }

func (h *httpRequest) Header(name string) string { return h.r.Header.Get(name) }

func (h *httpRequest) Body() ([]byte, error) {
	if h.read {
		return h.body, h.err
	}
	h.read = true

	rc := h.r.Body
	if rc == nil || rc == http.NoBody {
		return nil, nil
	}

	b, err := io.ReadAll(io.LimitReader(rc, h.maxBody+1))
	if err != nil {
		h.err = fmt.Errorf("read body: %w", err)
		h.r.Body = readCloser{io.MultiReader(bytes.NewReader(b), rc), rc}
		return nil, h.err
	}
	if int64(len(b)) > h.maxBody {
		// hand the rest of the stream back untouched
		h.r.Body = readCloser{io.MultiReader(bytes.NewReader(b), rc), rc}
		h.err = errBodyTooLarge
		return nil, h.err
	}
	rc.Close()
	h.r.Body = io.NopCloser(bytes.NewReader(b))
	h.body = b
	return b, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

type httpCookieJar struct {
	w http.ResponseWriter
	r *http.Request
}

// NewHTTPCookieJar reads cookies from r and writes them to w.
//
// Params:
// - w: response writer receiving Set-Cookie headers.
// - r: request the cookies are read from.
//
// Returns:
// - a CookieJar over the pair.
func NewHTTPCookieJar(w http.ResponseWriter, r *http.Request) CookieJar {
	return httpCookieJar{w: w, r: r}
}

func (j httpCookieJar) Get(name string) (string, bool) {
	c, err := j.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (j httpCookieJar) Set(c *http.Cookie) {
	http.SetCookie(j.w, c)
}
