package tokenstore

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevoked      = errors.New("token has been revoked (logout)")
)

// Claims is the verified content of an access token.
type Claims struct {
	UserID    uint
	JTI       string
	ExpiresAt time.Time
}

// Issuer signs and verifies HS256 access tokens.
type Issuer struct {
	secret  []byte
	ttl     time.Duration
	revoked *RevocationList
	now     func() time.Time
}

func NewIssuer(secret string, ttl time.Duration, revoked *RevocationList) *Issuer {
	if revoked == nil {
		revoked = NewRevocationList()
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, revoked: revoked, now: time.Now}
}

// Issue creates a token for userID.
func (i *Issuer) Issue(userID uint) (string, Claims, error) {
	claims := Claims{
		UserID:    userID,
		JTI:       uuid.NewString(),
		ExpiresAt: i.now().Add(i.ttl),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": claims.ExpiresAt.Unix(),
		"jti": claims.JTI,
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify checks signature, expiry and revocation of tokenStr.
func (i *Issuer) Verify(tokenStr string) (Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// only accept HMAC signing
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}

	var claims Claims
	claims.JTI, _ = mc["jti"].(string)
	if i.revoked.IsRevoked(claims.JTI) {
		return Claims{}, ErrRevoked
	}

	// jwt may decode a numeric subject as float64
	switch sub := mc["sub"].(type) {
	case string:
		id, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return Claims{}, fmt.Errorf("%w: invalid subject", ErrInvalidToken)
		}
		claims.UserID = uint(id)
	case float64:
		claims.UserID = uint(sub)
	}
	if claims.UserID == 0 {
		return Claims{}, fmt.Errorf("%w: invalid subject", ErrInvalidToken)
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}

// Revoke invalidates a verified token until its expiry.
func (i *Issuer) Revoke(c Claims) {
	i.revoked.Revoke(c.JTI, c.ExpiresAt.Sub(i.now()))
}
