package service

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

// ProductService defines the storefront workflows
type ProductService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Categories(ctx context.Context) ([]*domain.Category, error)
	AddProduct(ctx context.Context, in AddProductInput) (*domain.Product, error)
	Purchase(ctx context.Context, id int64) (*domain.Product, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	logger *zap.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// List returns every in-stock product with its category, ordered by ID
func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.ListInStock(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return products, nil
}

// Categories returns the known category names for form suggestions
func (s *productService) Categories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return categories, nil
}

// AddProduct validates the submission, resolves its category and stores the product.
// A category created here is kept even if the product insert fails.
func (s *productService) AddProduct(ctx context.Context, in AddProductInput) (*domain.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	categoryName := strings.TrimSpace(in.Category)
	category, created, err := s.categoryRepo.FindOrCreate(ctx, categoryName)
	if err != nil {
		return nil, storeError(err)
	}
	if created {
		s.logger.Info("Category created",
			zap.Int64("category_id", category.ID),
			zap.String("name", category.Name),
		)
	}

	product := &domain.Product{
		Name:       strings.TrimSpace(in.Name),
		Price:      *in.Price,
		Stock:      *in.Stock,
		Image:      strings.TrimSpace(in.Image),
		CategoryID: category.ID,
		Category:   category,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, storeError(err)
	}

	return product, nil
}

// Purchase takes one unit of stock from the product
func (s *productService) Purchase(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
		return nil, storeError(err)
	}
	if err := validatePurchase(product); err != nil {
		return nil, err
	}

	// The decrement re-checks stock atomically; a concurrent buyer may have
	// taken the last unit since the read above.
	updated, err := s.productRepo.DecrementStock(ctx, id)
	switch {
	case errors.Is(err, repository.ErrStockExhausted):
		return nil, newError(KindOutOfStock, MsgOutOfStock)
	case errors.Is(err, repository.ErrProductNotFound):
		return nil, newError(KindNotFound, MsgNotFound)
	case err != nil:
		return nil, storeError(err)
	}

	updated.Category = product.Category
	return updated, nil
}
