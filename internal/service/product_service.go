package service

import (
	"context"
	"time"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"
)

// ProductService is the validation-and-persistence pipeline. Every write
// operation validates before touching the store; identifier decoding
// happens before any store call on path-parameterized operations.
type ProductService interface {
	Create(ctx context.Context, fields map[string]any) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	repo repository.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

// now returns the current UTC time at the store's millisecond resolution,
// so a created product reads back with the exact timestamps it was
// assembled with.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Create validates the fields, stamps both timestamps with the same
// instant, and inserts the document. The store assigns the identifier.
func (s *productService) Create(ctx context.Context, fields map[string]any) (*domain.Product, error) {
	validated, verrs := ValidateProductFields(fields)
	if verrs != nil {
		return nil, verrs
	}

	ts := now()
	product := &domain.Product{
		Name:        validated.Name,
		Description: validated.Description,
		Price:       validated.Price,
		Quantity:    validated.Quantity,
		Category:    validated.Category,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	id, err := s.repo.Insert(ctx, product)
	if err != nil {
		return nil, err
	}

	product.ID = id
	return product, nil
}

// Get retrieves a single product by its wire identifier.
func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	objectID, err := domain.ParseProductID(id)
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, objectID)
}

// List retrieves all products in the store's natural order.
func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.FindAll(ctx)
}

// Update is a full replacement: the complete field set is validated and
// written, with CreatedAt preserved from the pre-existing document and a
// fresh UpdatedAt. The post-replace read reports the stored document
// faithfully.
func (s *productService) Update(ctx context.Context, id string, fields map[string]any) (*domain.Product, error) {
	validated, verrs := ValidateProductFields(fields)
	if verrs != nil {
		return nil, verrs
	}

	objectID, err := domain.ParseProductID(id)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:          objectID,
		Name:        validated.Name,
		Description: validated.Description,
		Price:       validated.Price,
		Quantity:    validated.Quantity,
		Category:    validated.Category,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   now(),
	}

	if err := s.repo.Replace(ctx, objectID, product); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, objectID)
}

// Delete removes a product. Deleting an already-deleted id reports
// not-found; there is no tombstone.
func (s *productService) Delete(ctx context.Context, id string) error {
	objectID, err := domain.ParseProductID(id)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, objectID)
}
