package gincsrf

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeanGrijp/csrf-protect/csrf"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(New(cfg))
	r.GET("/token", func(c *gin.Context) {
		c.String(http.StatusOK, Token(c))
	})
	r.POST("/action", func(c *gin.Context) {
		var args []any
		if err := c.ShouldBindJSON(&args); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.String(http.StatusOK, "%d", len(args))
	})
	return r
}

func TestGetIssuesSecretAndToken(t *testing.T) {
	r := newRouter(DefaultConfig())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/token", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	tok := rec.Body.String()
	assert.NotEmpty(t, tok)
	assert.Equal(t, tok, rec.Header().Get("X-CSRF-Token"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "_csrfSecret", cookies[0].Name)

	secret, err := csrf.DecodeSecret(cookies[0].Value)
	require.NoError(t, err)
	assert.NoError(t, csrf.VerifyToken(tok, secret, 8))
}

func TestServerActionBodyStillBindable(t *testing.T) {
	r := newRouter(DefaultConfig())
	secret, err := csrf.CreateSecret(8)
	require.NoError(t, err)
	tok, err := csrf.CreateToken(secret, 8)
	require.NoError(t, err)

	body, err := json.Marshal([]any{map[string]string{"csrf_token": tok}, "arg"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/action", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "_csrfSecret", Value: csrf.EncodeSecret(secret)})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "2", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-CSRF-Token"))
	assert.Empty(t, rec.Result().Cookies())
}

func TestRejectsWithoutToken(t *testing.T) {
	r := newRouter(DefaultConfig())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/action", strings.NewReader("[]")))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("X-CSRF-Token"))
	assert.Empty(t, rec.Result().Cookies())
}

func TestCustomErrorHandlerAndHeader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token.ResponseHeader = "X-Next-Token"
	cfg.ErrorHandler = func(c *gin.Context) {
		err := c.Errors.Last()
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	}
	r := newRouter(cfg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/action", strings.NewReader("[]"))
	req.Header.Set("X-CSRF-Token", "-")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_token_encoding")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/token", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Next-Token"))
}
