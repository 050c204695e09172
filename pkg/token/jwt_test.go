package tokenstore

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	iss := NewIssuer("secret", time.Hour, nil)
	tok, issued, err := iss.Issue(42)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.JTI)

	claims, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, issued.JTI, claims.JTI)
}

func TestVerifyRejects(t *testing.T) {
	iss := NewIssuer("secret", time.Hour, nil)
	tok, _, err := iss.Issue(1)
	require.NoError(t, err)

	other := NewIssuer("other-secret", time.Hour, nil)
	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	_, err = iss.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken, "malformed")

	expired := NewIssuer("secret", -time.Minute, nil)
	old, _, err := expired.Issue(1)
	require.NoError(t, err)
	_, err = iss.Verify(old)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1", "exp": time.Now().Add(time.Hour).Unix()})
	noneStr, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = iss.Verify(noneStr)
	assert.ErrorIs(t, err, ErrInvalidToken, "unsigned")

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	noSubStr, err := noSub.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = iss.Verify(noSubStr)
	assert.ErrorIs(t, err, ErrInvalidToken, "missing subject")
}

func TestRevoke(t *testing.T) {
	iss := NewIssuer("secret", time.Hour, nil)
	tok, _, err := iss.Issue(5)
	require.NoError(t, err)
	claims, err := iss.Verify(tok)
	require.NoError(t, err)

	iss.Revoke(claims)
	_, err = iss.Verify(tok)
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestRevocationList(t *testing.T) {
	r := NewRevocationList()
	assert.False(t, r.IsRevoked(""))
	r.Revoke("", time.Hour)
	r.Revoke("abc", time.Hour)
	assert.True(t, r.IsRevoked("abc"))
	assert.False(t, r.IsRevoked("def"))
}
