package jwt

import (
	"testing"
	"time"

	jwtstd "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-bytes-long-xxxxx"

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	jtm := NewTokenManager(testSecret, time.Hour)

	token, err := jtm.Issue("user-123", "a@x.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jtm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt, 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestIssue_DistinctTokens(t *testing.T) {
	t.Parallel()

	jtm := NewTokenManager(testSecret)

	t1, err := jtm.Issue("user-1", "a@x.com", "user")
	require.NoError(t, err)
	t2, err := jtm.Issue("user-1", "a@x.com", "user")
	require.NoError(t, err)

	// Two logins for the same identity must yield independent tokens.
	assert.NotEqual(t, t1, t2)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	jtm := NewTokenManager(testSecret)

	token, err := jtm.IssueWithExpiry("user-1", "a@x.com", "user", -time.Second)
	require.NoError(t, err)

	_, err = jtm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	jtm := NewTokenManager(testSecret)

	// Validity is the half-open interval [iat, exp): a token is rejected
	// once its expiry instant has been reached.
	token, err := jtm.IssueWithExpiry("user-1", "a@x.com", "user", 0)
	require.NoError(t, err)

	_, err = jtm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewTokenManager("right-secret").Issue("user-1", "a@x.com", "user")
	require.NoError(t, err)

	_, err = NewTokenManager("wrong-secret").Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	jtm := NewTokenManager(testSecret)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := jtm.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", tok)
	}
}

func TestVerify_RejectsUnsignedAlg(t *testing.T) {
	t.Parallel()

	unsigned := jwtstd.NewWithClaims(jwtstd.SigningMethodNone, jwtstd.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwtstd.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret).Verify(token)
	assert.Error(t, err)
}

func TestNoSigningKey(t *testing.T) {
	t.Parallel()

	jtm := NewTokenManager("")

	_, err := jtm.Issue("user-1", "a@x.com", "user")
	assert.ErrorIs(t, err, ErrNeedSigningKey)

	_, err = jtm.Verify("whatever")
	assert.ErrorIs(t, err, ErrNeedSigningKey)
}

func TestExpire_Default(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultAccessTokenExpire, NewTokenManager(testSecret).Expire())
	assert.Equal(t, 2*time.Hour, NewTokenManager(testSecret, 2*time.Hour).Expire())
}
