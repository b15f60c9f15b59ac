package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeshark-lucifer/pos-system/logging/logger"
	"github.com/codeshark-lucifer/pos-system/middleware"
	"github.com/codeshark-lucifer/pos-system/net/resp"
	"github.com/codeshark-lucifer/pos-system/service"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	svc    *service.AuthService
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: log,
	}
}

// Register handles user registration. The role field is not bound from the
// body; every new account starts as a regular user.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"omitempty,max=100"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated, user)
}

// Login handles user login and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, result)
}

// Logout revokes the session used on this request, leaving other devices
// logged in.
func (h *AuthHandler) Logout(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	token, okToken := middleware.GetToken(c)
	if !ok || !okToken {
		resp.Fail(c.Writer, resp.UnAuthorized("not authenticated"))
		return
	}

	if err := h.svc.Logout(c.Request.Context(), principal, token); err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, map[string]string{"message": "logged out successfully"})
}
