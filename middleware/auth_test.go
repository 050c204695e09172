package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tokenstore "NeuraFlow/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityRouter(iss *tokenstore.Issuer, mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", mw, func(c *gin.Context) {
		uid, ok := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"uid": uid, "ok": ok})
	})
	return r
}

func do(r http.Handler, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	iss := tokenstore.NewIssuer("secret", time.Hour, nil)
	tok, _, err := iss.Issue(9)
	require.NoError(t, err)
	r := identityRouter(iss, AuthMiddleware(iss))

	w := do(r, func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+tok) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":9,"ok":true}`, w.Body.String())

	w = do(r, func(req *http.Request) { req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tok}) })
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusUnauthorized, do(r, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, func(req *http.Request) { req.Header.Set("Authorization", "Token abc") }).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, func(req *http.Request) { req.Header.Set("Authorization", "Bearer broken") }).Code)

	claims, err := iss.Verify(tok)
	require.NoError(t, err)
	iss.Revoke(claims)
	w = do(r, func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+tok) })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")
}

func TestOptionalAuth(t *testing.T) {
	iss := tokenstore.NewIssuer("secret", time.Hour, nil)
	tok, _, err := iss.Issue(3)
	require.NoError(t, err)
	r := identityRouter(iss, OptionalAuth(iss))

	w := do(r, func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+tok) })
	assert.JSONEq(t, `{"uid":3,"ok":true}`, w.Body.String())

	for _, setup := range []func(*http.Request){
		nil,
		func(req *http.Request) { req.Header.Set("Authorization", "Bearer expired-or-garbage") },
		func(req *http.Request) { req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "garbage"}) },
	} {
		w := do(r, setup)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"uid":0,"ok":false}`, w.Body.String())
	}
}
