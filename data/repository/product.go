package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codeshark-lucifer/pos-system/logging/logger"
	"github.com/codeshark-lucifer/pos-system/structs"
)

// ProductUpdate carries the mutable product fields; nil fields are left
// untouched.
type ProductUpdate struct {
	Name        *string
	Price       *float64
	Description *string
	Stock       *int
	Category    *string
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Name string // case-insensitive substring match
}

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(ctx context.Context, product *structs.Product) (*structs.Product, error)
	FindByID(ctx context.Context, id string) (*structs.Product, error)
	List(ctx context.Context, filter ProductFilter, skip, limit int64) ([]*structs.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int64, error)
	Update(ctx context.Context, id string, update ProductUpdate) (*structs.Product, error)
	Delete(ctx context.Context, id string) error
}

type productRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewProductRepository creates a new product repository instance.
func NewProductRepository(db *mongo.Database, log *logger.Logger) ProductRepository {
	return &productRepository{
		collection: db.Collection("products"),
		logger:     log,
	}
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, product *structs.Product) (*structs.Product, error) {
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		r.logger.Error(ctx, "failed to create product", "error", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Info(ctx, "product created", "id", product.ID.Hex())
	return product, nil
}

// FindByID retrieves a product by ID.
func (r *productRepository) FindByID(ctx context.Context, id string) (*structs.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var product structs.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		r.logger.Error(ctx, "failed to find product", "id", id, "error", err)
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return &product, nil
}

// List retrieves products matching the filter, newest first.
func (r *productRepository) List(ctx context.Context, filter ProductFilter, skip, limit int64) ([]*structs.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filterQuery(filter), opts)
	if err != nil {
		r.logger.Error(ctx, "failed to list products", "error", err)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*structs.Product
	if err := cursor.All(ctx, &products); err != nil {
		r.logger.Error(ctx, "failed to decode products", "error", err)
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// Count returns the number of products matching the filter.
func (r *productRepository) Count(ctx context.Context, filter ProductFilter) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, filterQuery(filter))
	if err != nil {
		r.logger.Error(ctx, "failed to count products", "error", err)
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// Update applies the non-nil fields and returns the updated document.
func (r *productRepository) Update(ctx context.Context, id string, update ProductUpdate) (*structs.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Stock != nil {
		set["stock"] = *update.Stock
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		r.logger.Error(ctx, "failed to update product", "id", id, "error", result.Err())
		return nil, fmt.Errorf("failed to update product: %w", result.Err())
	}

	var updated structs.Product
	if err := result.Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated product: %w", err)
	}

	r.logger.Info(ctx, "product updated", "id", id)
	return &updated, nil
}

// Delete removes a product by ID.
func (r *productRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProductNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		r.logger.Error(ctx, "failed to delete product", "id", id, "error", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}

	r.logger.Info(ctx, "product deleted", "id", id)
	return nil
}

func filterQuery(filter ProductFilter) bson.M {
	query := bson.M{}
	if filter.Name != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(filter.Name), "$options": "i"}
	}
	return query
}
