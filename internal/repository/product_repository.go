package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"product-catalog/internal/domain"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Insert(ctx context.Context, product *domain.Product) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	FindAll(ctx context.Context) ([]*domain.Product, error)
	Replace(ctx context.Context, id primitive.ObjectID, product *domain.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type productRepository struct {
	collection *mongo.Collection
}

// NewProductRepository creates a new instance of ProductRepository backed
// by a MongoDB collection. The collection's client is shared process-wide
// and safe for concurrent use.
func NewProductRepository(collection *mongo.Collection) ProductRepository {
	return &productRepository{collection: collection}
}

// productDocument is the stored shape of a product. Price is persisted as
// Decimal128 so the store never sees a binary float.
type productDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Price       primitive.Decimal128 `bson:"price"`
	Quantity    int64                `bson:"quantity"`
	Category    string               `bson:"category"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

func toDocument(product *domain.Product) (*productDocument, error) {
	price, err := primitive.ParseDecimal128(product.Price.String())
	if err != nil {
		return nil, fmt.Errorf("failed to encode price: %w", err)
	}

	return &productDocument{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       price,
		Quantity:    product.Quantity,
		Category:    product.Category,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}, nil
}

func (d *productDocument) toDomain() (*domain.Product, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return nil, fmt.Errorf("failed to decode price: %w", err)
	}

	return &domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Quantity:    d.Quantity,
		Category:    d.Category,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// Insert persists a new product document; the store assigns the identifier.
func (r *productRepository) Insert(ctx context.Context, product *domain.Product) (primitive.ObjectID, error) {
	doc, err := toDocument(product)
	if err != nil {
		return primitive.NilObjectID, err
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert product: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}

	return id, nil
}

// FindByID retrieves a product by its native identifier. Absence is
// reported as ErrProductNotFound, never as a driver error.
func (r *productRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var doc productDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return doc.toDomain()
}

// FindAll retrieves every product in the collection's natural order. The
// result is eagerly materialized; pagination is out of scope.
func (r *productRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]*domain.Product, 0, len(docs))
	for i := range docs {
		product, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, nil
}

// Replace overwrites the full field set of an existing document. The _id is
// omitted from the replacement so the store keeps the original identifier.
func (r *productRepository) Replace(ctx context.Context, id primitive.ObjectID, product *domain.Product) error {
	doc, err := toDocument(product)
	if err != nil {
		return err
	}
	doc.ID = primitive.NilObjectID

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("failed to replace product: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product document by identifier.
func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}
