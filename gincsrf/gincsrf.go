// Package gincsrf adapts the csrf engine to gin.
package gincsrf

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JeanGrijp/csrf-protect/csrf"
)

// ContextKey is the gin context key holding the minted token.
const ContextKey = "csrf_token"

// Config embeds the shared csrf.Config and adds gin-specific fields.
type Config struct {
	csrf.Config

	// ErrorHandler runs when verification fails. It must abort the chain.
	// The failure is available as the last entry of c.Errors.
	ErrorHandler gin.HandlerFunc

	Logger *zap.Logger
}

// DefaultConfig returns the adapter defaults.
func DefaultConfig() Config {
	return Config{Config: csrf.DefaultConfig()}
}

// New returns a gin middleware enforcing CSRF protection.
//
// Params:
// - cfg: adapter configuration; unset shared fields take csrf defaults.
//
// Returns:
// - a gin.HandlerFunc that verifies the request, sets the response header
//   and stores the token under ContextKey before calling c.Next.
func New(cfg Config) gin.HandlerFunc {
	cfg.Config = csrf.MergeConfig(csrf.DefaultConfig(), cfg.Config)
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *gin.Context) {
			c.String(http.StatusForbidden, "invalid csrf token")
			c.Abort()
		}
	}
	engine := csrf.NewEngine(cfg.Config, cfg.Logger)

	return func(c *gin.Context) {
		req := csrf.NewHTTPRequest(c.Request, cfg.MaxBodyBytes)
		token, err := engine.Protect(c.Request.Context(), req, csrf.NewHTTPCookieJar(c.Writer, c.Request))
		if err != nil {
			_ = c.Error(err)
			if csrf.IsCsrfError(err) {
				cfg.ErrorHandler(c)
				return
			}
			cfg.Logger.Error("csrf protection failed", zap.Error(err))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		if token != "" {
			c.Header(cfg.Token.ResponseHeader, token)
			c.Set(ContextKey, token)
		}
		c.Next()
	}
}

// Token returns the token minted for the current request, or "".
func Token(c *gin.Context) string {
	return c.GetString(ContextKey)
}
