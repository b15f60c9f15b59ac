// Package handler provides the HTTP handlers for the POS backend.
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/codeshark-lucifer/pos-system/data/repository"
	"github.com/codeshark-lucifer/pos-system/logging/logger"
	"github.com/codeshark-lucifer/pos-system/middleware"
	"github.com/codeshark-lucifer/pos-system/net/resp"
	"github.com/codeshark-lucifer/pos-system/service"
	"github.com/codeshark-lucifer/pos-system/structs"
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Product *ProductHandler
	logger  *logger.Logger
}

// NewHandler creates a new handler instance with all sub-handlers
// initialized.
func NewHandler(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth, log),
		User:    NewUserHandler(svc.User, log),
		Product: NewProductHandler(svc.Product, log),
		logger:  log,
	}
}

// RegisterRoutes registers all HTTP routes. The authn middleware gates the
// protected groups; loginLimiter (optional) throttles credential guessing
// on the login endpoint.
func (h *Handler) RegisterRoutes(r *gin.Engine, authn gin.HandlerFunc, loginLimiter ...gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", append(loginLimiter, h.Auth.Login)...)
		auth.POST("/logout", authn, h.Auth.Logout)
	}

	users := r.Group("/users")
	users.Use(authn)
	{
		users.GET("/me", h.User.Me)
		users.PUT("/me", h.User.UpdateMe)
		users.DELETE("/me", h.User.DeleteMe)
		users.GET("", middleware.RequireRole(structs.RoleAdmin), h.User.List)
		users.PUT("/:user_id", h.User.Update)
		users.DELETE("/:user_id", h.User.Delete)
	}

	products := r.Group("/products")
	products.Use(authn)
	{
		products.GET("", h.Product.List)
		products.GET("/:product_id", h.Product.Get)

		adminOnly := middleware.RequireRole(structs.RoleAdmin)
		products.POST("", adminOnly, h.Product.Create)
		products.PUT("/:product_id", adminOnly, h.Product.Update)
		products.DELETE("/:product_id", adminOnly, h.Product.Delete)
	}
}

// fail maps service errors to the response envelope.
func fail(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		resp.Fail(c.Writer, resp.NotFound("user not found"))
	case errors.Is(err, repository.ErrProductNotFound):
		resp.Fail(c.Writer, resp.NotFound("product not found"))
	case errors.Is(err, repository.ErrEmailExists):
		resp.Fail(c.Writer, resp.Conflict("email already registered"))
	case errors.Is(err, service.ErrInvalidCredentials):
		resp.Fail(c.Writer, resp.UnAuthorized("invalid credentials"))
	case errors.Is(err, service.ErrUnauthenticated):
		resp.Fail(c.Writer, resp.UnAuthorized("not authenticated"))
	case errors.Is(err, service.ErrForbidden):
		resp.Fail(c.Writer, resp.Forbidden("insufficient permissions"))
	case errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrInvalidRole):
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
	default:
		log.Error(c.Request.Context(), "request failed", "error", err)
		resp.Fail(c.Writer, resp.InternalServer("server error"))
	}
}
