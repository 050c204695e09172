package middleware

import (
	"errors"
	"net/http"
	"strings"

	tokenstore "NeuraFlow/pkg/token"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "current_user_id"
	ContextClaimsKey = "current_claims"

	// TokenCookie carries the access token for browser clients.
	TokenCookie = "token"
)

var errNoToken = errors.New("missing authorization header")

// tokenFromRequest reads a bearer token, falling back to the token cookie.
func tokenFromRequest(c *gin.Context) (string, error) {
	if auth := c.GetHeader("Authorization"); auth != "" {
		parts := strings.Fields(auth)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", errors.New("invalid authorization header")
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", errNoToken
}

func setIdentity(c *gin.Context, claims tokenstore.Claims) {
	c.Set(ContextUserIDKey, claims.UserID)
	c.Set(ContextClaimsKey, claims)
}

// AuthMiddleware rejects requests without a valid access token.
func AuthMiddleware(iss *tokenstore.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := tokenFromRequest(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
			return
		}
		claims, err := iss.Verify(tokenStr)
		if errors.Is(err, tokenstore.ErrRevoked) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Token has been revoked (logout)"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid token"})
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the requester identity when a valid token is present
// and otherwise lets the request through anonymously.
func OptionalAuth(iss *tokenstore.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, err := tokenFromRequest(c); err == nil {
			if claims, err := iss.Verify(tokenStr); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the verified requester id, if any.
func CurrentUser(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	uid, ok := v.(uint)
	return uid, ok && uid != 0
}

// CurrentClaims returns the verified token claims, if any.
func CurrentClaims(c *gin.Context) (tokenstore.Claims, bool) {
	v, ok := c.Get(ContextClaimsKey)
	if !ok {
		return tokenstore.Claims{}, false
	}
	claims, ok := v.(tokenstore.Claims)
	return claims, ok
}
