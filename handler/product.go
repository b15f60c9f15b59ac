package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codeshark-lucifer/pos-system/logging/logger"
	"github.com/codeshark-lucifer/pos-system/net/resp"
	"github.com/codeshark-lucifer/pos-system/service"
)

// ProductHandler handles product HTTP requests.
type ProductHandler struct {
	svc    *service.ProductService
	logger *logger.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(svc *service.ProductService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		svc:    svc,
		logger: log,
	}
}

// Create handles product creation.
func (h *ProductHandler) Create(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	product, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated, product)
}

// Get handles product retrieval.
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.svc.Get(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, product)
}

// List handles product listing with pagination and an optional name
// filter (?page=1&limit=10&name=abc).
func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	name := c.Query("name")

	products, total, err := h.svc.List(c.Request.Context(), page, limit, name)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, map[string]any{
		"data": products,
		"pagination": map[string]any{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// Update handles product updates.
func (h *ProductHandler) Update(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	product, err := h.svc.Update(c.Request.Context(), c.Param("product_id"), &req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, product)
}

// Delete handles product deletion.
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("product_id")); err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, map[string]string{
		"message":    "product deleted",
		"product_id": c.Param("product_id"),
	})
}
