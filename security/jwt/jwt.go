// Package jwt implements the signed bearer token codec.
//
// Tokens are self-contained HS256 credentials asserting a user's identity
// and role. A token is never mutated after issuance; revocation happens in
// the session registry, not here.
package jwt

import (
	"errors"
	"time"

	jwtstd "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenError represents JWT token related errors.
type TokenError string

func (e TokenError) Error() string {
	return string(e)
}

const (
	DefaultAccessTokenExpire = time.Hour

	ErrNeedSigningKey = TokenError("cannot sign token without signing key")
	ErrTokenMalformed = TokenError("token malformed")
	ErrTokenSignature = TokenError("token signature invalid")
	ErrTokenExpired   = TokenError("token expired")
	ErrTokenInvalid   = TokenError("invalid token")
)

// Claims are the verified assertions carried by a token.
type Claims struct {
	UserID    string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwtstd.RegisteredClaims
}

// TokenManager handles token issuance and verification bound to a
// process-wide signing key.
type TokenManager struct {
	key    string
	expire time.Duration
}

// NewTokenManager creates a TokenManager. An optional expiry overrides the
// default access token lifetime.
func NewTokenManager(key string, expire ...time.Duration) *TokenManager {
	ttl := DefaultAccessTokenExpire
	if len(expire) > 0 && expire[0] > 0 {
		ttl = expire[0]
	}
	return &TokenManager{key: key, expire: ttl}
}

// Expire returns the configured token lifetime.
func (jtm *TokenManager) Expire() time.Duration {
	return jtm.expire
}

// Issue signs a token for the given identity using the configured lifetime.
func (jtm *TokenManager) Issue(userID, email, role string) (string, error) {
	return jtm.IssueWithExpiry(userID, email, role, jtm.expire)
}

// IssueWithExpiry signs a token valid for the half-open interval
// [now, now+ttl).
func (jtm *TokenManager) IssueWithExpiry(userID, email, role string, ttl time.Duration) (string, error) {
	if jtm.key == "" {
		return "", ErrNeedSigningKey
	}

	now := time.Now()
	claims := tokenClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwtstd.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.New().String(),
			IssuedAt:  jwtstd.NewNumericDate(now),
			ExpiresAt: jwtstd.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwtstd.NewWithClaims(jwtstd.SigningMethodHS256, claims)
	return t.SignedString([]byte(jtm.key))
}

// Verify checks signature and expiry and returns the token claims.
func (jtm *TokenManager) Verify(tokenString string) (*Claims, error) {
	if jtm.key == "" {
		return nil, ErrNeedSigningKey
	}

	var claims tokenClaims
	token, err := jwtstd.ParseWithClaims(tokenString, &claims, func(token *jwtstd.Token) (any, error) {
		return []byte(jtm.key), nil
	}, jwtstd.WithValidMethods([]string{jwtstd.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, mapTokenError(err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	out := &Claims{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwtstd.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwtstd.ErrTokenSignatureInvalid):
		return ErrTokenSignature
	case errors.Is(err, jwtstd.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenInvalid
	}
}
