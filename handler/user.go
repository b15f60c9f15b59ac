package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codeshark-lucifer/pos-system/logging/logger"
	"github.com/codeshark-lucifer/pos-system/middleware"
	"github.com/codeshark-lucifer/pos-system/net/resp"
	"github.com/codeshark-lucifer/pos-system/service"
)

// UserHandler handles user account HTTP requests.
type UserHandler struct {
	svc    *service.UserService
	logger *logger.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: log,
	}
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		resp.Fail(c.Writer, resp.UnAuthorized("not authenticated"))
		return
	}
	resp.Success(c.Writer, principal)
}

// UpdateMe updates the authenticated user's own profile. A role field in
// the payload is rejected like any other self-service role change.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		resp.Fail(c.Writer, resp.UnAuthorized("not authenticated"))
		return
	}
	h.update(c, principal.ID.Hex())
}

// DeleteMe deletes the authenticated user's own account, subject to the
// admin self-deletion protection.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		resp.Fail(c.Writer, resp.UnAuthorized("not authenticated"))
		return
	}
	h.delete(c, principal.ID.Hex())
}

// List returns a paginated user list. Admin only (enforced at the route).
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, total, err := h.svc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, map[string]any{
		"data": users,
		"pagination": map[string]any{
			"page":      page,
			"page_size": pageSize,
			"total":     total,
		},
	})
}

// Update updates a user by ID, subject to the self-vs-other rules.
func (h *UserHandler) Update(c *gin.Context) {
	h.update(c, c.Param("user_id"))
}

// Delete deletes a user by ID, subject to the deletion rules.
func (h *UserHandler) Delete(c *gin.Context) {
	h.delete(c, c.Param("user_id"))
}

func (h *UserHandler) update(c *gin.Context, targetID string) {
	principal, _ := middleware.GetPrincipal(c)

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	user, err := h.svc.Update(c.Request.Context(), principal, targetID, &req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, user)
}

func (h *UserHandler) delete(c *gin.Context, targetID string) {
	principal, _ := middleware.GetPrincipal(c)

	if err := h.svc.Delete(c.Request.Context(), principal, targetID); err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, map[string]string{
		"message": "user deleted",
		"user_id": targetID,
	})
}
