// Package middleware provides authentication, authorization and request
// hygiene middleware for the HTTP layer.
package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/codeshark-lucifer/pos-system/logging/logger"
	"github.com/codeshark-lucifer/pos-system/net/resp"
	securityjwt "github.com/codeshark-lucifer/pos-system/security/jwt"
	"github.com/codeshark-lucifer/pos-system/service"
	"github.com/codeshark-lucifer/pos-system/structs"
)

const (
	principalKey = "auth_principal"
	tokenKey     = "auth_token"
)

// Authenticate gates a route group behind bearer token authentication. On
// success the principal and the exact token are attached to the request
// context for downstream handlers (logout needs the token).
//
// Every authentication failure is answered 401 with a generic message; the
// precise cause goes to the log only.
func Authenticate(authService *service.AuthService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, token, err := authService.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, service.ErrNoCredential) {
				resp.Fail(c.Writer, resp.UnAuthorized("missing authorization header"))
				c.Abort()
				return
			}
			if isAuthFailure(err) {
				log.Warn(c.Request.Context(), "authentication rejected", "reason", err)
				resp.Fail(c.Writer, resp.UnAuthorized("invalid or expired token"))
				c.Abort()
				return
			}
			log.Error(c.Request.Context(), "authentication failed", "error", err)
			resp.Fail(c.Writer, resp.InternalServer("authentication unavailable"))
			c.Abort()
			return
		}

		c.Set(principalKey, user)
		c.Set(tokenKey, token)

		c.Next()
	}
}

// RequireRole restricts a route group to the given roles. An empty role
// list means any authenticated principal.
func RequireRole(roles ...structs.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := GetPrincipal(c)
		if err := service.Authorize(principal, roles...); err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				resp.Fail(c.Writer, resp.UnAuthorized("not authenticated"))
			} else {
				resp.Fail(c.Writer, resp.Forbidden("insufficient permissions"))
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated user from the request context.
func GetPrincipal(c *gin.Context) (*structs.User, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*structs.User)
	return user, ok
}

// GetToken retrieves the bearer token used on this request.
func GetToken(c *gin.Context) (string, bool) {
	value, exists := c.Get(tokenKey)
	if !exists {
		return "", false
	}
	token, ok := value.(string)
	return token, ok
}

func isAuthFailure(err error) bool {
	switch {
	case errors.Is(err, securityjwt.ErrTokenMalformed),
		errors.Is(err, securityjwt.ErrTokenSignature),
		errors.Is(err, securityjwt.ErrTokenExpired),
		errors.Is(err, securityjwt.ErrTokenInvalid),
		errors.Is(err, service.ErrUnknownPrincipal),
		errors.Is(err, service.ErrSessionRevoked):
		return true
	}
	return false
}
