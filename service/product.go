package service

import (
	"context"

	"github.com/codeshark-lucifer/pos-system/data/repository"
	"github.com/codeshark-lucifer/pos-system/logging/logger"
	"github.com/codeshark-lucifer/pos-system/structs"
)

// ProductService handles product catalog management.
type ProductService struct {
	products repository.ProductRepository
	logger   *logger.Logger
}

// NewProductService creates a new product service.
func NewProductService(products repository.ProductRepository, log *logger.Logger) *ProductService {
	return &ProductService{
		products: products,
		logger:   log,
	}
}

// CreateProductRequest represents the request to create a product.
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Description string  `json:"description"`
	Stock       int     `json:"stock" binding:"omitempty,gte=0"`
	Category    string  `json:"category"`
}

// UpdateProductRequest represents the request to update a product. Nil
// fields are left untouched.
type UpdateProductRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=200"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
	Category    *string  `json:"category"`
}

// Create creates a new product.
func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*structs.Product, error) {
	category := req.Category
	if category == "" {
		category = "general"
	}

	return s.products.Create(ctx, &structs.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Stock:       req.Stock,
		Category:    category,
	})
}

// Get retrieves a product by ID.
func (s *ProductService) Get(ctx context.Context, id string) (*structs.Product, error) {
	return s.products.FindByID(ctx, id)
}

// List retrieves a paginated product list with an optional
// case-insensitive name filter.
func (s *ProductService) List(ctx context.Context, page, limit int, name string) ([]*structs.Product, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	filter := repository.ProductFilter{Name: name}

	products, err := s.products.List(ctx, filter, int64((page-1)*limit), int64(limit))
	if err != nil {
		return nil, 0, err
	}

	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Update updates an existing product.
func (s *ProductService) Update(ctx context.Context, id string, req *UpdateProductRequest) (*structs.Product, error) {
	return s.products.Update(ctx, id, repository.ProductUpdate{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Stock:       req.Stock,
		Category:    req.Category,
	})
}

// Delete deletes a product by ID.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}
